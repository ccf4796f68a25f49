package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// Chat events
	ChatSubmitted EventType = "chat:submitted"
	ChatResolved  EventType = "chat:resolved"
	ChatError     EventType = "chat:error"

	// Widget events
	WidgetUpdated EventType = "widget:updated"
	LayoutChanged EventType = "layout:changed"

	// System events
	ConfigChanged EventType = "system:config_changed"
	SystemError   EventType = "system:error"
)

// WidgetRefresh is the payload for WidgetUpdated and LayoutChanged events.
// Widget is a widget id, or "layout" for layout changes.
type WidgetRefresh struct {
	Widget string `json:"widget"`
}

// Event represents an event in the system
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// EventHandler is a function that handles events
type EventHandler func(event Event)

// EventBus provides event-driven communication between components
type EventBus struct {
	handlers map[EventType][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe adds an event handler for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	delete(eb.handlers, eventType)
}

// Emit publishes an event to all registered handlers
func (eb *EventBus) Emit(eventType EventType, data interface{}) {
	eb.mutex.RLock()
	handlers := eb.handlers[eventType]
	eb.mutex.RUnlock()

	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	// Execute handlers in goroutines to avoid blocking
	for _, handler := range handlers {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					fmt.Printf("Event handler panic for %s: %v\n", eventType, r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Close shuts down the event bus
func (eb *EventBus) Close() {
	eb.cancel()
}

// Helper methods for common event emissions

// EmitWidgetRefresh signals that a widget's stored configuration changed
// and mounted views should re-read it
func (eb *EventBus) EmitWidgetRefresh(widgetID string) {
	eb.Emit(WidgetUpdated, WidgetRefresh{Widget: widgetID})
}

// EmitLayoutChange signals that the active layout key changed
func (eb *EventBus) EmitLayoutChange() {
	eb.Emit(LayoutChanged, WidgetRefresh{Widget: "layout"})
}

// EmitConfigChange signals that the persisted AI configuration changed
func (eb *EventBus) EmitConfigChange() {
	eb.Emit(ConfigChanged, nil)
}

// EmitSystemError emits a system error event
func (eb *EventBus) EmitSystemError(err error) {
	eb.Emit(SystemError, map[string]string{
		"error": err.Error(),
	})
}

package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nexustab/events"
	"nexustab/store"
)

// Result represents the outcome of executing a widget action. Every
// branch produces a message for the UI; execution never panics or leaves
// the popup without something to display.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// errNoMatch aborts a removal update without touching stored state
var errNoMatch = errors.New("no match")

// Executor applies validated widget actions against persisted widget and
// layout state
type Executor struct {
	store *store.Store
	bus   *events.EventBus
}

// NewExecutor creates a new widget action executor
func NewExecutor(s *store.Store, bus *events.EventBus) *Executor {
	return &Executor{
		store: s,
		bus:   bus,
	}
}

// ExecuteWidgetAction applies a single action and returns the outcome
func (e *Executor) ExecuteWidgetAction(ctx context.Context, action *Action) *Result {
	if action == nil {
		return failure("No action to execute")
	}
	if err := validateAction(action); err != nil {
		return failure(fmt.Sprintf("Invalid action: %v", err))
	}

	log.Debug().Str("kind", string(action.Kind)).Str("widget", action.TargetWidget()).Msg("executing widget action")

	switch action.Kind {
	case ActionAddTask:
		return e.addTask(ctx, action)
	case ActionRemoveTask:
		return e.removeTask(ctx, action)
	case ActionAddLink:
		return e.addLink(ctx, action)
	case ActionRemoveLink:
		return e.removeLink(ctx, action)
	case ActionAddNote:
		return e.addNote(ctx, action)
	case ActionClearNotes:
		return e.clearNotes(ctx)
	case ActionAddFeed:
		return e.addFeed(ctx, action)
	case ActionRemoveFeed:
		return e.removeFeed(ctx, action)
	case ActionLayoutChange:
		return e.changeLayout(ctx, action)
	default:
		return failure(fmt.Sprintf("Unknown action kind: %s", action.Kind))
	}
}

// addTask appends a new task record to the Tasks widget
func (e *Executor) addTask(ctx context.Context, action *Action) *Result {
	task := Task{
		ID:       uuid.New().String(),
		Text:     strings.TrimSpace(action.Text),
		Link:     action.Link,
		Priority: action.Priority,
		Status:   "todo",
		Date:     time.Now().Format("2006-01-02"),
	}

	err := e.store.Update(ctx, store.KeyTasks, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeTasks(raw)
		if err != nil {
			return nil, err
		}
		cfg.Items = append(cfg.Items, task)
		return cfg, nil
	})
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetTasks)
	return success(fmt.Sprintf("Added task '%s'", task.Text))
}

// removeTask removes the best textual match among existing tasks. With
// multiple matches the first in stored order is removed and the message
// notes the ambiguity.
func (e *Executor) removeTask(ctx context.Context, action *Action) *Result {
	match := strings.ToLower(strings.TrimSpace(action.Match))
	var removed string
	matchCount := 0

	err := e.store.Update(ctx, store.KeyTasks, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeTasks(raw)
		if err != nil {
			return nil, err
		}

		kept := make([]Task, 0, len(cfg.Items))
		for _, item := range cfg.Items {
			if strings.Contains(strings.ToLower(item.Text), match) {
				matchCount++
				if matchCount == 1 {
					removed = item.Text
					continue
				}
			}
			kept = append(kept, item)
		}
		if matchCount == 0 {
			return nil, errNoMatch
		}
		cfg.Items = kept
		return cfg, nil
	})
	if errors.Is(err, errNoMatch) {
		return failure("No matching task found")
	}
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetTasks)
	if matchCount > 1 {
		return success(fmt.Sprintf("Removed task '%s' (first of %d matches)", removed, matchCount))
	}
	return success(fmt.Sprintf("Removed task '%s'", removed))
}

// addLink appends a new quick link
func (e *Executor) addLink(ctx context.Context, action *Action) *Result {
	name := strings.TrimSpace(action.Name)
	if name == "" {
		name = action.URL
	}
	link := QuickLink{
		ID:   uuid.New().String(),
		Name: name,
		URL:  action.URL,
	}

	err := e.store.Update(ctx, store.KeyQuickLinks, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeQuickLinks(raw)
		if err != nil {
			return nil, err
		}
		cfg.Links = append(cfg.Links, link)
		return cfg, nil
	})
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetQuickLinks)
	return success(fmt.Sprintf("Added quick link '%s'", link.Name))
}

// removeLink removes the first quick link whose name or URL contains the
// match string
func (e *Executor) removeLink(ctx context.Context, action *Action) *Result {
	match := strings.ToLower(strings.TrimSpace(action.Match))
	var removed string
	matchCount := 0

	err := e.store.Update(ctx, store.KeyQuickLinks, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeQuickLinks(raw)
		if err != nil {
			return nil, err
		}

		kept := make([]QuickLink, 0, len(cfg.Links))
		for _, link := range cfg.Links {
			if strings.Contains(strings.ToLower(link.Name), match) ||
				strings.Contains(strings.ToLower(link.URL), match) {
				matchCount++
				if matchCount == 1 {
					removed = link.Name
					continue
				}
			}
			kept = append(kept, link)
		}
		if matchCount == 0 {
			return nil, errNoMatch
		}
		cfg.Links = kept
		return cfg, nil
	})
	if errors.Is(err, errNoMatch) {
		return failure("No matching quick link found")
	}
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetQuickLinks)
	if matchCount > 1 {
		return success(fmt.Sprintf("Removed quick link '%s' (first of %d matches)", removed, matchCount))
	}
	return success(fmt.Sprintf("Removed quick link '%s'", removed))
}

// addNote appends to the Notes widget content. Appending with a separator
// avoids silently overwriting existing notes.
func (e *Executor) addNote(ctx context.Context, action *Action) *Result {
	content := strings.TrimSpace(action.Content)

	err := e.store.Update(ctx, store.KeyNotes, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeNotes(raw)
		if err != nil {
			return nil, err
		}
		if cfg.Content == "" {
			cfg.Content = content
		} else {
			cfg.Content = cfg.Content + "\n\n" + content
		}
		return cfg, nil
	})
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetNotes)
	return success("Added note")
}

// clearNotes empties the Notes widget content
func (e *Executor) clearNotes(ctx context.Context) *Result {
	err := e.store.Update(ctx, store.KeyNotes, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeNotes(raw)
		if err != nil {
			return nil, err
		}
		cfg.Content = ""
		return cfg, nil
	})
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetNotes)
	return success("Cleared notes")
}

// addFeed appends a new feed subscription to the RSS widget
func (e *Executor) addFeed(ctx context.Context, action *Action) *Result {
	feed := Feed{
		Name: strings.TrimSpace(action.Name),
		URL:  action.URL,
	}

	err := e.store.Update(ctx, store.KeyRSS, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeRSS(raw)
		if err != nil {
			return nil, err
		}
		cfg.Feeds = append(cfg.Feeds, feed)
		return cfg, nil
	})
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetRSS)
	if feed.Name != "" {
		return success(fmt.Sprintf("Added feed '%s'", feed.Name))
	}
	return success(fmt.Sprintf("Added feed %s", feed.URL))
}

// removeFeed removes the first feed whose name or URL contains the match
// string
func (e *Executor) removeFeed(ctx context.Context, action *Action) *Result {
	match := strings.ToLower(strings.TrimSpace(action.Match))
	var removed string
	matchCount := 0

	err := e.store.Update(ctx, store.KeyRSS, func(raw json.RawMessage) (interface{}, error) {
		cfg, err := decodeRSS(raw)
		if err != nil {
			return nil, err
		}

		kept := make([]Feed, 0, len(cfg.Feeds))
		for _, feed := range cfg.Feeds {
			if strings.Contains(strings.ToLower(feed.Name), match) ||
				strings.Contains(strings.ToLower(feed.URL), match) {
				matchCount++
				if matchCount == 1 {
					removed = feed.URL
					if feed.Name != "" {
						removed = feed.Name
					}
					continue
				}
			}
			kept = append(kept, feed)
		}
		if matchCount == 0 {
			return nil, errNoMatch
		}
		cfg.Feeds = kept
		return cfg, nil
	})
	if errors.Is(err, errNoMatch) {
		return failure("No matching feed found")
	}
	if err != nil {
		return storeFailure(err)
	}

	e.bus.EmitWidgetRefresh(WidgetRSS)
	if matchCount > 1 {
		return success(fmt.Sprintf("Removed feed '%s' (first of %d matches)", removed, matchCount))
	}
	return success(fmt.Sprintf("Removed feed '%s'", removed))
}

// changeLayout writes the shared active-layout key. This is the one
// action that does not go through a widget's own configuration.
func (e *Executor) changeLayout(ctx context.Context, action *Action) *Result {
	if err := e.store.Set(ctx, store.KeyActiveLayout, action.Layout); err != nil {
		return storeFailure(err)
	}

	e.bus.EmitLayoutChange()
	return success(fmt.Sprintf("Switched layout to %s", action.Layout))
}

// Decode helpers: a nil raw value is the widget's default configuration

func decodeTasks(raw json.RawMessage) (TasksConfig, error) {
	var cfg TasksConfig
	if raw != nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode tasks config: %w", err)
		}
	}
	return cfg, nil
}

func decodeQuickLinks(raw json.RawMessage) (QuickLinksConfig, error) {
	var cfg QuickLinksConfig
	if raw != nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode quick links config: %w", err)
		}
	}
	return cfg, nil
}

func decodeNotes(raw json.RawMessage) (NotesConfig, error) {
	var cfg NotesConfig
	if raw != nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode notes config: %w", err)
		}
	}
	return cfg, nil
}

func decodeRSS(raw json.RawMessage) (RSSConfig, error) {
	var cfg RSSConfig
	if raw != nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode rss config: %w", err)
		}
	}
	return cfg, nil
}

func success(message string) *Result {
	return &Result{OK: true, Message: message}
}

func failure(message string) *Result {
	return &Result{OK: false, Message: message}
}

func storeFailure(err error) *Result {
	log.Warn().Err(err).Msg("widget action store write failed")
	return failure(fmt.Sprintf("Failed to update widget state: %v", err))
}

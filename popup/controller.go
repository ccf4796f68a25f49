package popup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nexustab/config"
	"nexustab/events"
	"nexustab/llm"
	"nexustab/store"
	"nexustab/widget"
)

// State represents the chat popup lifecycle state
type State int

const (
	// StateIdle means the popup is closed
	StateIdle State = iota
	// StateComposing means the popup is open and accepting input
	StateComposing
	// StateAwaitingResponse means a chat submission is in flight
	StateAwaitingResponse
	// StateNeedsConfirmation means a destructive action awaits the user
	StateNeedsConfirmation
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateNeedsConfirmation:
		return "needs_confirmation"
	default:
		return "unknown"
	}
}

// ChatSender abstracts the provider client so tests can stub it
type ChatSender interface {
	SendChat(ctx context.Context, cfg *config.Config, history []llm.Message) llm.ChatResult
}

// PendingAction holds a destructive action between parse and user
// confirmation. It is discarded on confirm, cancel or popup close and is
// never persisted.
type PendingAction struct {
	Action  *widget.Action
	Message string // Full model reply, shown for confirmation context
}

// Snapshot is a consistent view of the controller state for rendering
type Snapshot struct {
	State     State
	Loading   bool
	Result    string
	Error     string
	Pending   *PendingAction
	CanSubmit bool
}

// Controller orchestrates the chat popup: provider client, action
// parser, confirmation gate and executor
type Controller struct {
	store    *store.Store
	bus      *events.EventBus
	client   ChatSender
	executor *widget.Executor

	mutex      sync.Mutex
	state      State
	cfg        *config.Config
	loading    bool
	pending    *PendingAction
	result     string
	errMsg     string
	generation int // Bumped on open/close so late responses are discarded
}

// NewController creates a new chat popup controller
func NewController(s *store.Store, bus *events.EventBus, client ChatSender) *Controller {
	return &Controller{
		store:    s,
		bus:      bus,
		client:   client,
		executor: widget.NewExecutor(s, bus),
	}
}

// Open transitions the popup from Idle to Composing: configuration is
// loaded fresh and all transient state from a previous session cleared
func (c *Controller) Open(ctx context.Context) error {
	cfg, err := config.LoadConfig(ctx, c.store)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cfg = cfg
	c.state = StateComposing
	c.pending = nil
	c.result = ""
	c.errMsg = ""
	c.loading = false
	c.generation++

	return nil
}

// Close transitions to Idle and discards all transient state. A response
// that arrives after Close is thrown away.
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state = StateIdle
	c.pending = nil
	c.result = ""
	c.errMsg = ""
	c.loading = false
	c.generation++
}

// Config returns the configuration loaded at popup open, or nil
func (c *Controller) Config() *config.Config {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cfg
}

// Snapshot returns a consistent view of the current controller state
func (c *Controller) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return Snapshot{
		State:     c.state,
		Loading:   c.loading,
		Result:    c.result,
		Error:     c.errMsg,
		Pending:   c.pending,
		CanSubmit: c.canSubmitLocked(),
	}
}

// canSubmitLocked reports whether a submission is currently allowed.
// A blank API key for the active provider disables chat entirely.
func (c *Controller) canSubmitLocked() bool {
	return c.state == StateComposing &&
		!c.loading &&
		c.cfg != nil &&
		c.cfg.HasAPIKey()
}

// Submit runs one full chat turn: provider request, action parse,
// confirmation gate, execution. It blocks until the turn resolves and is
// intended to be called off the UI goroutine. Submissions are strictly
// serialized; a submit while one is in flight is a no-op.
func (c *Controller) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)

	c.mutex.Lock()
	if text == "" || !c.canSubmitLocked() {
		c.mutex.Unlock()
		return
	}

	c.loading = true
	c.state = StateAwaitingResponse
	c.result = ""
	c.errMsg = ""
	cfg := c.cfg
	generation := c.generation
	c.mutex.Unlock()

	c.bus.Emit(events.ChatSubmitted, nil)

	// One-message history per submission; no multi-turn memory is kept
	// across popup opens
	history := []llm.Message{{
		ID:        uuid.New().String(),
		Role:      "user",
		Content:   text,
		Timestamp: time.Now(),
	}}

	chatResult := c.client.SendChat(ctx, cfg, history)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.generation != generation {
		// Popup was closed (or reopened) while the request was in flight
		log.Debug().Msg("discarding late chat response")
		return
	}

	c.loading = false

	if chatResult.Failed() {
		c.errMsg = chatResult.Err
		c.state = StateComposing
		c.bus.Emit(events.ChatError, map[string]string{"error": chatResult.Err})
		return
	}

	action := widget.ParseActionFromResponse(chatResult.Content)
	if action == nil {
		// Plain conversational reply
		c.result = chatResult.Content
		c.state = StateComposing
		c.bus.Emit(events.ChatResolved, nil)
		return
	}

	if action.IsDestructive() && cfg.ConfirmDestructiveActions {
		c.pending = &PendingAction{
			Action:  action,
			Message: chatResult.Content,
		}
		c.state = StateNeedsConfirmation
		return
	}

	c.executeLocked(ctx, action)
}

// Confirm executes the pending destructive action
func (c *Controller) Confirm(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != StateNeedsConfirmation || c.pending == nil || c.loading {
		return
	}

	action := c.pending.Action
	c.pending = nil
	c.executeLocked(ctx, action)
}

// CancelPending discards the pending action and returns to Composing
func (c *Controller) CancelPending() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != StateNeedsConfirmation {
		return
	}

	c.pending = nil
	c.errMsg = ""
	c.state = StateComposing
}

// executeLocked applies an action and resolves the turn. The popup
// closes on success and stays open showing the error on failure. Called
// with the mutex held.
func (c *Controller) executeLocked(ctx context.Context, action *widget.Action) {
	result := c.executor.ExecuteWidgetAction(ctx, action)

	if result.OK {
		c.result = result.Message
		c.state = StateIdle
		c.bus.Emit(events.ChatResolved, nil)
		return
	}

	c.errMsg = result.Message
	c.state = StateComposing
}

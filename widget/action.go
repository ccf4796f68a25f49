package widget

import (
	"fmt"
	"strings"
)

// ActionKind represents the kind of widget action to execute
type ActionKind string

const (
	ActionAddTask      ActionKind = "add_task"
	ActionRemoveTask   ActionKind = "remove_task"
	ActionAddLink      ActionKind = "add_link"
	ActionRemoveLink   ActionKind = "remove_link"
	ActionAddNote      ActionKind = "add_note"
	ActionClearNotes   ActionKind = "clear_notes"
	ActionAddFeed      ActionKind = "add_feed"
	ActionRemoveFeed   ActionKind = "remove_feed"
	ActionLayoutChange ActionKind = "layout_change"
)

// Action represents a structured command extracted from a model response.
// Each kind uses exactly the fields it needs; everything else stays empty.
type Action struct {
	Kind ActionKind `json:"kind"`

	// add_task
	Text     string `json:"text,omitempty"`
	Link     string `json:"link,omitempty"`
	Priority string `json:"priority,omitempty"`

	// remove_task / remove_link / remove_feed
	Match string `json:"match,omitempty"`

	// add_link / add_feed
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`

	// add_note
	Content string `json:"content,omitempty"`

	// layout_change
	Layout string `json:"layout,omitempty"`
}

// validateAction checks that an action carries the fields its kind needs.
// A partial action must never reach the executor.
func validateAction(action *Action) error {
	switch action.Kind {
	case ActionAddTask:
		if strings.TrimSpace(action.Text) == "" {
			return fmt.Errorf("add_task requires text")
		}
	case ActionRemoveTask:
		if strings.TrimSpace(action.Match) == "" {
			return fmt.Errorf("remove_task requires match")
		}
	case ActionAddLink:
		if strings.TrimSpace(action.URL) == "" {
			return fmt.Errorf("add_link requires url")
		}
	case ActionRemoveLink:
		if strings.TrimSpace(action.Match) == "" {
			return fmt.Errorf("remove_link requires match")
		}
	case ActionAddNote:
		if strings.TrimSpace(action.Content) == "" {
			return fmt.Errorf("add_note requires content")
		}
	case ActionClearNotes:
		// No fields
	case ActionAddFeed:
		if strings.TrimSpace(action.URL) == "" {
			return fmt.Errorf("add_feed requires url")
		}
	case ActionRemoveFeed:
		if strings.TrimSpace(action.Match) == "" {
			return fmt.Errorf("remove_feed requires match")
		}
	case ActionLayoutChange:
		if !ValidLayout(action.Layout) {
			return fmt.Errorf("unknown layout: %s", action.Layout)
		}
	default:
		return fmt.Errorf("unknown action kind: %s", action.Kind)
	}

	return nil
}

// IsDestructive returns true if the action removes or clears existing
// user data. Destructive actions are subject to optional confirmation.
func (a *Action) IsDestructive() bool {
	switch a.Kind {
	case ActionRemoveTask, ActionRemoveLink, ActionRemoveFeed, ActionClearNotes:
		return true
	default:
		return false
	}
}

// TargetWidget returns the widget id the action mutates, or "layout" for
// layout changes
func (a *Action) TargetWidget() string {
	switch a.Kind {
	case ActionAddTask, ActionRemoveTask:
		return WidgetTasks
	case ActionAddLink, ActionRemoveLink:
		return WidgetQuickLinks
	case ActionAddNote, ActionClearNotes:
		return WidgetNotes
	case ActionAddFeed, ActionRemoveFeed:
		return WidgetRSS
	case ActionLayoutChange:
		return "layout"
	default:
		return ""
	}
}

// Description returns a human-readable description of the action, used
// verbatim in the confirmation prompt
func (a *Action) Description() string {
	switch a.Kind {
	case ActionAddTask:
		return fmt.Sprintf("add the task '%s'", a.Text)
	case ActionRemoveTask:
		return fmt.Sprintf("remove the task matching '%s'", a.Match)
	case ActionAddLink:
		if a.Name != "" {
			return fmt.Sprintf("add the quick link '%s' (%s)", a.Name, a.URL)
		}
		return fmt.Sprintf("add the quick link %s", a.URL)
	case ActionRemoveLink:
		return fmt.Sprintf("remove the quick link matching '%s'", a.Match)
	case ActionAddNote:
		return fmt.Sprintf("add a note: %s", a.Content)
	case ActionClearNotes:
		return "clear all notes"
	case ActionAddFeed:
		if a.Name != "" {
			return fmt.Sprintf("add the feed '%s' (%s)", a.Name, a.URL)
		}
		return fmt.Sprintf("add the feed %s", a.URL)
	case ActionRemoveFeed:
		return fmt.Sprintf("remove the feed matching '%s'", a.Match)
	case ActionLayoutChange:
		return fmt.Sprintf("switch layout to %s", a.Layout)
	default:
		return fmt.Sprintf("unknown action: %s", a.Kind)
	}
}

package widget

import (
	"strings"
	"testing"
)

var allKinds = []ActionKind{
	ActionAddTask,
	ActionRemoveTask,
	ActionAddLink,
	ActionRemoveLink,
	ActionAddNote,
	ActionClearNotes,
	ActionAddFeed,
	ActionRemoveFeed,
	ActionLayoutChange,
}

func TestDestructivePartition(t *testing.T) {
	destructive := map[ActionKind]bool{
		ActionRemoveTask: true,
		ActionRemoveLink: true,
		ActionRemoveFeed: true,
		ActionClearNotes: true,
	}

	for _, kind := range allKinds {
		action := Action{Kind: kind}
		if got := action.IsDestructive(); got != destructive[kind] {
			t.Errorf("Kind %s: expected destructive=%v, got %v", kind, destructive[kind], got)
		}
	}
}

func TestTargetWidget(t *testing.T) {
	cases := map[ActionKind]string{
		ActionAddTask:      WidgetTasks,
		ActionRemoveTask:   WidgetTasks,
		ActionAddLink:      WidgetQuickLinks,
		ActionRemoveLink:   WidgetQuickLinks,
		ActionAddNote:      WidgetNotes,
		ActionClearNotes:   WidgetNotes,
		ActionAddFeed:      WidgetRSS,
		ActionRemoveFeed:   WidgetRSS,
		ActionLayoutChange: "layout",
	}

	for kind, want := range cases {
		action := Action{Kind: kind}
		if got := action.TargetWidget(); got != want {
			t.Errorf("Kind %s: expected widget %s, got %s", kind, want, got)
		}
	}
}

func TestDescriptionIsParameterized(t *testing.T) {
	action := Action{Kind: ActionRemoveTask, Match: "groceries"}
	if got := action.Description(); got != "remove the task matching 'groceries'" {
		t.Errorf("Unexpected description: %s", got)
	}

	action = Action{Kind: ActionLayoutChange, Layout: LayoutWorkflow}
	if got := action.Description(); got != "switch layout to workflow" {
		t.Errorf("Unexpected description: %s", got)
	}

	// Every kind must produce a non-empty description
	for _, kind := range allKinds {
		action := Action{
			Kind:    kind,
			Text:    "t",
			Match:   "m",
			URL:     "u",
			Content: "c",
			Layout:  LayoutFocus,
		}
		if strings.TrimSpace(action.Description()) == "" {
			t.Errorf("Kind %s: empty description", kind)
		}
	}
}

func TestValidLayout(t *testing.T) {
	for _, name := range []string{LayoutFocus, LayoutDashboard, LayoutWorkflow} {
		if !ValidLayout(name) {
			t.Errorf("Expected %s to be a valid layout", name)
		}
	}
	if ValidLayout("grid") {
		t.Error("Expected 'grid' to be invalid")
	}
	if ValidLayout("") {
		t.Error("Expected empty layout to be invalid")
	}
}

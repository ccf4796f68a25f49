package widget

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nexustab/events"
	"nexustab/store"
)

func newTestExecutor(t *testing.T) (*Executor, *store.Store) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "nexustab-executor-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s := store.NewStore(filepath.Join(tempDir, "store.json"))
	bus := events.NewEventBus()
	t.Cleanup(bus.Close)

	return NewExecutor(s, bus), s
}

func TestAddTask(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "call dentist tomorrow"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	var cfg TasksConfig
	if _, err := s.Get(ctx, store.KeyTasks, &cfg); err != nil {
		t.Fatalf("Get tasks failed: %v", err)
	}
	if len(cfg.Items) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(cfg.Items))
	}

	task := cfg.Items[0]
	if task.Text != "call dentist tomorrow" {
		t.Errorf("Unexpected task text: %s", task.Text)
	}
	if task.Status != "todo" {
		t.Errorf("Expected status 'todo', got '%s'", task.Status)
	}
	if task.Completed {
		t.Error("Expected new task to be incomplete")
	}
	if task.ID == "" {
		t.Error("Expected generated task id")
	}
	if task.Date == "" {
		t.Error("Expected task date to be set")
	}
}

func TestRemoveTask(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "Buy groceries"})
	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "water plants"})

	// Case-insensitive substring match
	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveTask, Match: "GROCERIES"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	var cfg TasksConfig
	if _, err := s.Get(ctx, store.KeyTasks, &cfg); err != nil {
		t.Fatalf("Get tasks failed: %v", err)
	}
	if len(cfg.Items) != 1 {
		t.Fatalf("Expected 1 remaining task, got %d", len(cfg.Items))
	}
	if cfg.Items[0].Text != "water plants" {
		t.Errorf("Wrong task removed, remaining: %s", cfg.Items[0].Text)
	}
}

func TestRemoveTaskNoMatchLeavesStateUnchanged(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "water plants"})

	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveTask, Match: "no such task"})
	if result.OK {
		t.Fatal("Expected failure for unmatched removal")
	}
	if result.Message != "No matching task found" {
		t.Errorf("Unexpected failure message: %s", result.Message)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}
	if string(before) != string(after) {
		t.Error("Expected store file to be byte-for-byte unchanged after failed removal")
	}
}

func TestRemoveTaskMultipleMatchesRemovesFirst(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "email alice"})
	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask, Text: "email bob"})

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveTask, Match: "email"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}
	if result.Message != "Removed task 'email alice' (first of 2 matches)" {
		t.Errorf("Expected ambiguity note in message, got: %s", result.Message)
	}

	var cfg TasksConfig
	if _, err := s.Get(ctx, store.KeyTasks, &cfg); err != nil {
		t.Fatalf("Get tasks failed: %v", err)
	}
	if len(cfg.Items) != 1 || cfg.Items[0].Text != "email bob" {
		t.Errorf("Expected first match removed in stored order, remaining: %+v", cfg.Items)
	}
}

func TestAddAndRemoveLink(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddLink, URL: "https://news.ycombinator.com", Name: "HN"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	// Name defaults to URL when absent
	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddLink, URL: "https://lobste.rs"})

	var cfg QuickLinksConfig
	if _, err := s.Get(ctx, store.KeyQuickLinks, &cfg); err != nil {
		t.Fatalf("Get links failed: %v", err)
	}
	if len(cfg.Links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(cfg.Links))
	}
	if cfg.Links[1].Name != "https://lobste.rs" {
		t.Errorf("Expected name to default to URL, got '%s'", cfg.Links[1].Name)
	}

	// Removal matches by URL substring as well as name
	result = executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveLink, Match: "lobste"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	if _, err := s.Get(ctx, store.KeyQuickLinks, &cfg); err != nil {
		t.Fatalf("Get links failed: %v", err)
	}
	if len(cfg.Links) != 1 || cfg.Links[0].Name != "HN" {
		t.Errorf("Unexpected links after removal: %+v", cfg.Links)
	}
}

func TestNotesAppendAndClear(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddNote, Content: "first note"})
	executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddNote, Content: "second note"})

	var cfg NotesConfig
	if _, err := s.Get(ctx, store.KeyNotes, &cfg); err != nil {
		t.Fatalf("Get notes failed: %v", err)
	}
	if cfg.Content != "first note\n\nsecond note" {
		t.Errorf("Expected appended notes, got: %q", cfg.Content)
	}

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionClearNotes})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}
	if _, err := s.Get(ctx, store.KeyNotes, &cfg); err != nil {
		t.Fatalf("Get notes failed: %v", err)
	}
	if cfg.Content != "" {
		t.Errorf("Expected empty notes after clear, got: %q", cfg.Content)
	}
}

func TestAddAndRemoveFeed(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddFeed, URL: "https://example.com/rss.xml", Name: "Example"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	result = executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveFeed, Match: "example"})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	var cfg RSSConfig
	if _, err := s.Get(ctx, store.KeyRSS, &cfg); err != nil {
		t.Fatalf("Get rss failed: %v", err)
	}
	if len(cfg.Feeds) != 0 {
		t.Errorf("Expected no feeds, got %+v", cfg.Feeds)
	}

	result = executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionRemoveFeed, Match: "example"})
	if result.OK {
		t.Error("Expected failure removing from empty feed list")
	}
}

func TestLayoutChange(t *testing.T) {
	executor, s := newTestExecutor(t)
	ctx := context.Background()

	result := executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionLayoutChange, Layout: LayoutWorkflow})
	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.Message)
	}

	var layout string
	found, err := s.Get(ctx, store.KeyActiveLayout, &layout)
	if err != nil || !found {
		t.Fatalf("Get layout failed: found=%v err=%v", found, err)
	}
	if layout != LayoutWorkflow {
		t.Errorf("Expected layout workflow, got %s", layout)
	}
}

func TestExecuteRejectsInvalidAction(t *testing.T) {
	executor, _ := newTestExecutor(t)
	ctx := context.Background()

	result := executor.ExecuteWidgetAction(ctx, nil)
	if result.OK {
		t.Error("Expected failure for nil action")
	}

	result = executor.ExecuteWidgetAction(ctx, &Action{Kind: ActionAddTask})
	if result.OK {
		t.Error("Expected failure for partial action")
	}
	if result.Message == "" {
		t.Error("Expected a failure message")
	}
}

func TestExecuteEmitsScopedRefresh(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "nexustab-executor-events-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s := store.NewStore(filepath.Join(tempDir, "store.json"))
	bus := events.NewEventBus()
	t.Cleanup(bus.Close)
	executor := NewExecutor(s, bus)

	refreshes := make(chan events.Event, 1)
	bus.Subscribe(events.WidgetUpdated, func(event events.Event) {
		refreshes <- event
	})
	layouts := make(chan events.Event, 1)
	bus.Subscribe(events.LayoutChanged, func(event events.Event) {
		layouts <- event
	})

	executor.ExecuteWidgetAction(context.Background(), &Action{Kind: ActionAddTask, Text: "t"})
	event := <-refreshes
	if refresh := event.Data.(events.WidgetRefresh); refresh.Widget != WidgetTasks {
		t.Errorf("Expected refresh scoped to tasks, got %s", refresh.Widget)
	}

	executor.ExecuteWidgetAction(context.Background(), &Action{Kind: ActionLayoutChange, Layout: LayoutFocus})
	event = <-layouts
	if refresh := event.Data.(events.WidgetRefresh); refresh.Widget != "layout" {
		t.Errorf("Expected layout refresh, got %s", refresh.Widget)
	}
}

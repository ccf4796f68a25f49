package widget

// Widget identifiers, used for store routing and refresh-event scoping
const (
	WidgetTasks      = "tasks"
	WidgetQuickLinks = "quicklinks"
	WidgetNotes      = "notes"
	WidgetRSS        = "rss"
)

// Layout names. The active layout selects which widgets are visible.
const (
	LayoutFocus     = "focus"
	LayoutDashboard = "dashboard"
	LayoutWorkflow  = "workflow"
)

// DefaultLayout is the active layout before any layout_change
const DefaultLayout = LayoutDashboard

// ValidLayout reports whether name is a known layout
func ValidLayout(name string) bool {
	return name == LayoutFocus || name == LayoutDashboard || name == LayoutWorkflow
}

// Layouts returns the known layout names
func Layouts() []string {
	return []string{LayoutFocus, LayoutDashboard, LayoutWorkflow}
}

// Task represents a single task in the Tasks widget
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Link      string `json:"link,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// TasksConfig is the persisted configuration of the Tasks widget
type TasksConfig struct {
	Items    []Task `json:"items"`
	ViewMode string `json:"view_mode,omitempty"`
}

// QuickLink represents a single entry in the QuickLinks widget
type QuickLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// QuickLinksConfig is the persisted configuration of the QuickLinks widget
type QuickLinksConfig struct {
	Links []QuickLink `json:"links"`
}

// NotesConfig is the persisted configuration of the Notes widget
type NotesConfig struct {
	Content string `json:"content"`
}

// Feed represents a single feed subscription in the RSS widget
type Feed struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

// RSSConfig is the persisted configuration of the RSS widget
type RSSConfig struct {
	Feeds           []Feed `json:"feeds"`
	RefreshInterval int    `json:"refresh_interval,omitempty"`
}

package models

// Icon is the symbolic icon identifier rendered next to a navigation group.
type Icon string

// Supported icon identifiers.
const (
	IconLayoutDashboard Icon = "LayoutDashboard"
	IconBookOpen        Icon = "BookOpen"
	IconFingerprint     Icon = "Fingerprint"
	IconCalendarDays    Icon = "CalendarDays"
	IconUsers           Icon = "Users"
)

// NavigationNode is a single link in the sidebar tree. Subject nodes carry children,
// section nodes are leaves.
type NavigationNode struct {
	Title    string           `json:"title"`
	URL      string           `json:"url"`
	Children []NavigationNode `json:"children"`
}

// NavigationGroup is a titled sidebar section.
type NavigationGroup struct {
	Name     string           `json:"group"`
	Title    string           `json:"title"`
	URL      string           `json:"url"`
	Icon     Icon             `json:"icon"`
	IsActive bool             `json:"isActive"`
	Items    []NavigationNode `json:"items"`
}

// FlattenedEntry is a navigation node linearised for path lookups.
type FlattenedEntry struct {
	Node      NavigationNode
	Group     string
	ParentURL string
}

// HasParent reports whether the entry was reached through a top level item.
func (e FlattenedEntry) HasParent() bool {
	return e.ParentURL != ""
}

// BreadcrumbItem is one element of a breadcrumb trail.
type BreadcrumbItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsCurrent bool   `json:"isCurrent"`
}

// SidebarData is the payload consumed by the portal sidebar.
type SidebarData struct {
	User    UserProfile       `json:"user"`
	NavMain []NavigationGroup `json:"navMain"`
}

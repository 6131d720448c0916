package service

import (
	"strings"

	"github.com/noah-isme/sma-classnav-api/internal/models"
)

// dashboardCrumb is prepended to every trail.
var dashboardCrumb = models.BreadcrumbItem{Title: "Dashboard", URL: "/dashboard"}

// Flatten lists every group item followed by its children. Only two levels are walked.
func Flatten(groups []models.NavigationGroup) []models.FlattenedEntry {
	entries := make([]models.FlattenedEntry, 0)
	for _, group := range groups {
		for _, item := range group.Items {
			entries = append(entries, models.FlattenedEntry{Node: item, Group: group.Name})
			for _, child := range item.Children {
				entries = append(entries, models.FlattenedEntry{Node: child, Group: group.Name, ParentURL: item.URL})
			}
		}
	}
	return entries
}

// ResolveTrail maps each prefix of currentPath to a navigation node. Prefixes without a
// matching node are skipped, and the Dashboard crumb always comes first.
func ResolveTrail(groups []models.NavigationGroup, currentPath string) []models.BreadcrumbItem {
	segments := splitPath(currentPath)
	trail := make([]models.BreadcrumbItem, 0, len(segments)+1)
	trail = append(trail, dashboardCrumb)
	if len(segments) == 0 {
		return trail
	}

	lookup := indexByURL(Flatten(groups))
	for k := 1; k <= len(segments); k++ {
		candidate := "/" + strings.Join(segments[:k], "/")
		entry, ok := lookup[candidate]
		if !ok {
			continue
		}
		trail = append(trail, models.BreadcrumbItem{
			Title:     entry.Node.Title,
			URL:       entry.Node.URL,
			IsCurrent: k == len(segments),
		})
	}
	return trail
}

// indexByURL keeps the first entry for each URL in flatten order.
func indexByURL(entries []models.FlattenedEntry) map[string]models.FlattenedEntry {
	lookup := make(map[string]models.FlattenedEntry, len(entries))
	for _, entry := range entries {
		if _, exists := lookup[entry.Node.URL]; !exists {
			lookup[entry.Node.URL] = entry
		}
	}
	return lookup
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

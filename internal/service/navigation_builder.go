package service

import (
	"strings"

	"github.com/noah-isme/sma-classnav-api/internal/models"
)

// Navigation group names in sidebar order.
const (
	GroupHome       = "Home"
	GroupClasses    = "Classes"
	GroupGrades     = "Grades"
	GroupAttendance = "Attendance"
	GroupSchedule   = "Schedule"
)

const classesURLPrefix = "/classes/"

type staticGroup struct {
	name     string
	url      string
	icon     models.Icon
	isActive bool
	items    []staticItem
}

type staticItem struct {
	title string
	url   string
}

// sidebarLayout is the fixed group order. The Classes group has no static items; its
// entries come from GroupClassesBySubject.
var sidebarLayout = []staticGroup{
	{
		name: GroupHome, url: "/dashboard", icon: models.IconLayoutDashboard, isActive: true,
		items: []staticItem{
			{title: "Dashboard", url: "/dashboard"},
			{title: "My Classes", url: "/class"},
			{title: "Schedule", url: "/schedule"},
		},
	},
	{name: GroupClasses, url: "/classes", icon: models.IconUsers},
	{
		name: GroupGrades, url: "/grades", icon: models.IconBookOpen, isActive: true,
		items: []staticItem{
			{title: "Raw Grade", url: "/raw-grades"},
			{title: "Transmutated Grade", url: "/transmutated-grades"},
			{title: "Reports", url: "/reports"},
		},
	},
	{
		name: GroupAttendance, url: "/attendance", icon: models.IconFingerprint,
		items: []staticItem{
			{title: "Daily Attendance", url: "/attendance"},
			{title: "Attendance Reports", url: "/attendance/reports"},
		},
	},
	{
		name: GroupSchedule, url: "/schedule", icon: models.IconCalendarDays,
		items: []staticItem{
			{title: "Class Schedule", url: "/schedule/classes"},
			{title: "Exam Schedule", url: "/schedule/exams"},
		},
	},
}

// GroupClassesBySubject folds class records into subject nodes, each holding one leaf per
// section. Subjects keep the order in which their code is first seen, and a subject's URL
// is derived from the id of that first record.
func GroupClassesBySubject(records []models.ClassRecord) []models.NavigationNode {
	nodes := make([]models.NavigationNode, 0)
	index := make(map[string]int)

	for _, record := range records {
		pos, ok := index[record.SubjectCode]
		if !ok {
			pos = len(nodes)
			index[record.SubjectCode] = pos
			nodes = append(nodes, models.NavigationNode{
				Title:    record.SubjectCode,
				URL:      classesURLPrefix + record.ID,
				Children: make([]models.NavigationNode, 0),
			})
		}
		nodes[pos].Children = append(nodes[pos].Children, models.NavigationNode{
			Title:    sectionLabel(record),
			URL:      classesURLPrefix + record.CourseID + "/" + record.MajorID + "/" + record.SectionID,
			Children: make([]models.NavigationNode, 0),
		})
	}
	return nodes
}

// sectionLabel joins the non-empty major, year level and section codes with single spaces.
func sectionLabel(record models.ClassRecord) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{record.MajorCode, record.YearLevelCode, record.SectionCode} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// BuildNavigation assembles the sidebar groups with classNodes as the Classes items.
// The user arguments do not influence the layout.
func BuildNavigation(userDisplayName, email string, classNodes []models.NavigationNode) []models.NavigationGroup {
	groups := make([]models.NavigationGroup, 0, len(sidebarLayout))
	for _, layout := range sidebarLayout {
		group := models.NavigationGroup{
			Name:     layout.name,
			Title:    layout.name,
			URL:      layout.url,
			Icon:     layout.icon,
			IsActive: layout.isActive,
		}
		if layout.name == GroupClasses {
			group.Items = cloneNodes(classNodes)
		} else {
			group.Items = make([]models.NavigationNode, 0, len(layout.items))
			for _, item := range layout.items {
				group.Items = append(group.Items, models.NavigationNode{
					Title:    item.title,
					URL:      item.url,
					Children: make([]models.NavigationNode, 0),
				})
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// cloneNodes copies two levels of nodes so the returned tree shares nothing with the input.
func cloneNodes(nodes []models.NavigationNode) []models.NavigationNode {
	out := make([]models.NavigationNode, 0, len(nodes))
	for _, node := range nodes {
		children := make([]models.NavigationNode, 0, len(node.Children))
		for _, child := range node.Children {
			children = append(children, models.NavigationNode{
				Title:    child.Title,
				URL:      child.URL,
				Children: make([]models.NavigationNode, 0),
			})
		}
		out = append(out, models.NavigationNode{Title: node.Title, URL: node.URL, Children: children})
	}
	return out
}

package models

// ClassRecord is one (subject, section) combination taught by a user, with the lookup
// codes of the course, major, year level and section already resolved.
type ClassRecord struct {
	ID            string `db:"id" json:"id"`
	SubjectCode   string `db:"subject_code" json:"subject_code"`
	SubjectName   string `db:"subject_name" json:"subject_name"`
	CourseID      string `db:"course_id" json:"course_id"`
	MajorID       string `db:"major_id" json:"major_id"`
	SectionID     string `db:"section_id" json:"section_id"`
	YearLevelID   string `db:"year_level_id" json:"year_level_id"`
	CourseCode    string `db:"course_code" json:"course_code"`
	MajorCode     string `db:"major_code" json:"major_code"`
	YearLevelCode string `db:"year_level_code" json:"year_level_code"`
	SectionCode   string `db:"section_code" json:"section_code"`
}

// OwnerKey selects the column used to match classes to the signed in user.
type OwnerKey string

// Supported owner keys.
const (
	OwnerKeyUserID OwnerKey = "user_id"
	OwnerKeyEmail  OwnerKey = "email"
)

// NavigationOwner identifies whose classes are loaded into the navigation.
type NavigationOwner struct {
	Key   OwnerKey
	Value string
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-classnav-api/internal/models"
)

const navigationRecordColumns = `
SELECT c.id, c.subject_code, c.subject_name,
       COALESCE(c.course_id::text, '') AS course_id,
       COALESCE(c.major_id::text, '') AS major_id,
       COALESCE(c.section_id::text, '') AS section_id,
       COALESCE(c.year_level_id::text, '') AS year_level_id,
       COALESCE(co.code, '') AS course_code,
       COALESCE(m.code, '') AS major_code,
       COALESCE(y.code, '') AS year_level_code,
       COALESCE(s.code, '') AS section_code
FROM classes c
LEFT JOIN courses co ON co.id = c.course_id
LEFT JOIN majors m ON m.id = c.major_id
LEFT JOIN year_levels y ON y.id = c.year_level_id
LEFT JOIN sections s ON s.id = c.section_id`

const navigationRecordOrder = `
ORDER BY c.created_at ASC, c.id ASC`

// ClassRepository reads the class rows that feed the sidebar.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListNavigationRecords returns the owner's classes with lookup codes resolved, oldest first.
func (r *ClassRepository) ListNavigationRecords(ctx context.Context, owner models.NavigationOwner) ([]models.ClassRecord, error) {
	var query string
	switch owner.Key {
	case models.OwnerKeyEmail:
		query = navigationRecordColumns + `
JOIN users u ON u.id = c.user_id
WHERE LOWER(u.email) = LOWER($1)` + navigationRecordOrder
	default:
		query = navigationRecordColumns + `
WHERE c.user_id = $1` + navigationRecordOrder
	}

	records := make([]models.ClassRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, owner.Value); err != nil {
		return nil, fmt.Errorf("list navigation records by %s: %w", owner.Key, err)
	}
	return records, nil
}

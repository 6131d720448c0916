package dto

import "github.com/noah-isme/sma-classnav-api/internal/models"

// BreadcrumbQuery captures the query string of the breadcrumb endpoint.
type BreadcrumbQuery struct {
	Path string `form:"path" validate:"max=2048"`
}

// ExportQuery captures the query string of the export endpoint.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// BreadcrumbResponse wraps a resolved trail together with the path it was resolved for.
type BreadcrumbResponse struct {
	Path  string                  `json:"path"`
	Items []models.BreadcrumbItem `json:"items"`
}

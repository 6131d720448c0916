package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-classnav-api/internal/dto"
	"github.com/noah-isme/sma-classnav-api/internal/middleware"
	"github.com/noah-isme/sma-classnav-api/internal/models"
	"github.com/noah-isme/sma-classnav-api/internal/service"
	appErrors "github.com/noah-isme/sma-classnav-api/pkg/errors"
	"github.com/noah-isme/sma-classnav-api/pkg/response"
)

type navigationService interface {
	Sidebar(ctx context.Context, claims *models.JWTClaims) (*models.SidebarData, bool, error)
	Breadcrumbs(ctx context.Context, claims *models.JWTClaims, path string) ([]models.BreadcrumbItem, error)
	Export(ctx context.Context, claims *models.JWTClaims, format string) (*service.ExportFile, error)
	Refresh(ctx context.Context, claims *models.JWTClaims) error
}

// NavigationHandler wires the navigation service to HTTP endpoints.
type NavigationHandler struct {
	service   navigationService
	validator *validator.Validate
}

// NewNavigationHandler constructs the handler.
func NewNavigationHandler(service navigationService, validate *validator.Validate) *NavigationHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &NavigationHandler{service: service, validator: validate}
}

// Sidebar godoc
// @Summary Sidebar navigation for the signed in user
// @Tags Navigation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation [get]
func (h *NavigationHandler) Sidebar(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	sidebar, cacheHit, err := h.service.Sidebar(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, sidebar, middleware.ExtractMeta(c))
}

// Breadcrumbs godoc
// @Summary Breadcrumb trail for a portal path
// @Tags Navigation
// @Produce json
// @Security BearerAuth
// @Param path query string false "Portal path, defaults to /"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation/breadcrumbs [get]
func (h *NavigationHandler) Breadcrumbs(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	query := dto.BreadcrumbQuery{Path: c.Query("path")}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "path is too long"))
		return
	}

	path := normalisePath(query.Path)
	trail, err := h.service.Breadcrumbs(c.Request.Context(), claims, path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BreadcrumbResponse{Path: path, Items: trail}, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the class navigation as CSV or PDF
// @Tags Navigation
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation/export [get]
func (h *NavigationHandler) Export(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	query := dto.ExportQuery{Format: strings.ToLower(strings.TrimSpace(c.Query("format")))}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "format must be csv or pdf"))
		return
	}

	file, err := h.service.Export(c.Request.Context(), claims, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Refresh godoc
// @Summary Drop the cached classes of the signed in user
// @Tags Navigation
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /navigation/refresh [post]
func (h *NavigationHandler) Refresh(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	if err := h.service.Refresh(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *NavigationHandler) claims(c *gin.Context) (*models.JWTClaims, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return nil, false
	}
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

// normalisePath drops any query string or fragment and guarantees a leading slash.
func normalisePath(raw string) string {
	path := strings.TrimSpace(raw)
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

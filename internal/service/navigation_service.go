package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-classnav-api/internal/models"
	appErrors "github.com/noah-isme/sma-classnav-api/pkg/errors"
	"github.com/noah-isme/sma-classnav-api/pkg/export"
)

const (
	fallbackDisplayName = "User"
	fallbackEmail       = "No email"
	navCacheKeyPrefix   = "nav:classes"
)

type navigationRecordLister interface {
	ListNavigationRecords(ctx context.Context, owner models.NavigationOwner) ([]models.ClassRecord, error)
}

type profileFinder interface {
	FindProfile(ctx context.Context, owner models.NavigationOwner) (*models.UserProfile, error)
}

// NavigationServiceConfig tunes navigation behaviour.
type NavigationServiceConfig struct {
	OwnerKey      models.OwnerKey
	CacheTTL      time.Duration
	DefaultAvatar string
}

// NavigationServiceParams groups constructor dependencies.
type NavigationServiceParams struct {
	Classes  navigationRecordLister
	Profiles profileFinder
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   NavigationServiceConfig
}

// ExportFile is a rendered navigation export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// NavigationService serves the sidebar, breadcrumbs and exports for the signed in user.
type NavigationService struct {
	classes  navigationRecordLister
	profiles profileFinder
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	cfg      NavigationServiceConfig
}

// NewNavigationService constructs a NavigationService with sane defaults.
func NewNavigationService(params NavigationServiceParams) *NavigationService {
	cfg := params.Config
	if cfg.OwnerKey == "" {
		cfg.OwnerKey = models.OwnerKeyUserID
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigationService{
		classes:  params.Classes,
		profiles: params.Profiles,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Sidebar returns the user block and navigation groups. The bool reports whether the class
// records were served from cache. Fetch failures degrade to an empty Classes group.
func (s *NavigationService) Sidebar(ctx context.Context, claims *models.JWTClaims) (*models.SidebarData, bool, error) {
	owner, err := s.ownerFromClaims(claims)
	if err != nil {
		return nil, false, err
	}

	records, hit := s.loadRecords(ctx, owner)
	profile := s.loadProfile(ctx, owner, claims)

	start := time.Now()
	nodes := GroupClassesBySubject(records)
	groups := BuildNavigation(profile.Name, profile.Email, nodes)
	s.metrics.ObserveNavigationBuild(time.Since(start))

	s.logger.Debug("navigation built",
		zap.String("owner_key", string(owner.Key)),
		zap.String("user", profile.Name),
		zap.String("email", profile.Email),
		zap.Int("records", len(records)),
		zap.Int("subjects", len(nodes)),
		zap.Bool("cache_hit", hit),
	)

	return &models.SidebarData{User: profile, NavMain: groups}, hit, nil
}

// Breadcrumbs resolves the trail for path against the user's navigation.
func (s *NavigationService) Breadcrumbs(ctx context.Context, claims *models.JWTClaims, path string) ([]models.BreadcrumbItem, error) {
	sidebar, _, err := s.Sidebar(ctx, claims)
	if err != nil {
		return nil, err
	}
	trail := ResolveTrail(sidebar.NavMain, path)
	s.metrics.ObserveBreadcrumbDepth(len(trail))
	return trail, nil
}

// Export renders the Classes group as a table of subject, section and url.
func (s *NavigationService) Export(ctx context.Context, claims *models.JWTClaims, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = export.FormatCSV
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, fmt.Sprintf("unsupported export format %q", format))
	}

	sidebar, _, err := s.Sidebar(ctx, claims)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Classes of %s", sidebar.User.Name),
		Headers: []string{"Subject", "Section", "URL"},
		Rows:    classRows(sidebar.NavMain),
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render navigation export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("classes-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Refresh drops the cached class records of the user.
func (s *NavigationService) Refresh(ctx context.Context, claims *models.JWTClaims) error {
	owner, err := s.ownerFromClaims(claims)
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, escapeGlob(recordsCacheKey(owner))); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh navigation cache")
	}
	s.logger.Info("navigation cache refreshed", zap.String("owner_key", string(owner.Key)))
	return nil
}

func (s *NavigationService) ownerFromClaims(claims *models.JWTClaims) (models.NavigationOwner, error) {
	if claims == nil {
		return models.NavigationOwner{}, appErrors.Clone(appErrors.ErrUnauthorized, "missing user claims")
	}
	value := strings.TrimSpace(claims.UserID)
	if s.cfg.OwnerKey == models.OwnerKeyEmail {
		value = strings.ToLower(strings.TrimSpace(claims.Email))
	}
	if value == "" {
		return models.NavigationOwner{}, appErrors.Clone(appErrors.ErrUnauthorized, fmt.Sprintf("token has no %s", s.cfg.OwnerKey))
	}
	return models.NavigationOwner{Key: s.cfg.OwnerKey, Value: value}, nil
}

func (s *NavigationService) loadRecords(ctx context.Context, owner models.NavigationOwner) ([]models.ClassRecord, bool) {
	key := recordsCacheKey(owner)
	if s.cache != nil {
		var cached []models.ClassRecord
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return cached, true
		}
	}

	if s.classes == nil {
		return []models.ClassRecord{}, false
	}

	start := time.Now()
	records, err := s.classes.ListNavigationRecords(ctx, owner)
	s.metrics.ObserveDBQuery("navigation_records", time.Since(start))
	if err != nil {
		s.logger.Warn("failed to load navigation records", zap.String("owner_key", string(owner.Key)), zap.Error(err))
		return []models.ClassRecord{}, false
	}
	if records == nil {
		records = []models.ClassRecord{}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, records, s.cfg.CacheTTL)
	}
	return records, false
}

func (s *NavigationService) loadProfile(ctx context.Context, owner models.NavigationOwner, claims *models.JWTClaims) models.UserProfile {
	profile := models.UserProfile{}
	if s.profiles != nil {
		start := time.Now()
		found, err := s.profiles.FindProfile(ctx, owner)
		s.metrics.ObserveDBQuery("navigation_profile", time.Since(start))
		switch {
		case err == nil && found != nil:
			profile = *found
		case errors.Is(err, sql.ErrNoRows):
			s.logger.Debug("user profile not found", zap.String("owner_key", string(owner.Key)))
		case err != nil:
			s.logger.Warn("failed to load user profile", zap.String("owner_key", string(owner.Key)), zap.Error(err))
		}
	}

	profile.Name = firstNonEmpty(profile.Name, claims.FullName, fallbackDisplayName)
	profile.Email = firstNonEmpty(profile.Email, claims.Email, fallbackEmail)
	profile.Avatar = firstNonEmpty(profile.Avatar, s.cfg.DefaultAvatar)
	return profile
}

// classRows lists one row per section leaf of the Classes group.
func classRows(groups []models.NavigationGroup) [][]string {
	rows := make([][]string, 0)
	subjects := make(map[string]string)
	for _, entry := range Flatten(groups) {
		if entry.Group != GroupClasses {
			continue
		}
		if !entry.HasParent() {
			subjects[entry.Node.URL] = entry.Node.Title
			continue
		}
		rows = append(rows, []string{subjects[entry.ParentURL], entry.Node.Title, entry.Node.URL})
	}
	return rows
}

func recordsCacheKey(owner models.NavigationOwner) string {
	return fmt.Sprintf("%s:%s:%s", navCacheKeyPrefix, owner.Key, owner.Value)
}

// escapeGlob quotes the redis glob metacharacters so the pattern matches only key.
func escapeGlob(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

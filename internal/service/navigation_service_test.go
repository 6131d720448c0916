package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-classnav-api/internal/models"
	appErrors "github.com/noah-isme/sma-classnav-api/pkg/errors"
)

type stubCacheRepo struct {
	store    map[string][]byte
	patterns []string
	getErr   error
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	for key := range s.store {
		if strings.ReplaceAll(pattern, `\`, "") == key {
			delete(s.store, key)
		}
	}
	return nil
}

type fakeRecordLister struct {
	records []models.ClassRecord
	err     error
	calls   int
	owners  []models.NavigationOwner
}

func (f *fakeRecordLister) ListNavigationRecords(_ context.Context, owner models.NavigationOwner) ([]models.ClassRecord, error) {
	f.calls++
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeProfileFinder struct {
	profile *models.UserProfile
	err     error
}

func (f *fakeProfileFinder) FindProfile(context.Context, models.NavigationOwner) (*models.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func teacherRecords() []models.ClassRecord {
	return []models.ClassRecord{
		{ID: "r1", SubjectCode: "CC104", CourseID: "c1", MajorID: "m1", SectionID: "s1", MajorCode: "IST", YearLevelCode: "1", SectionCode: "A"},
		{ID: "r2", SubjectCode: "CC104", CourseID: "c1", MajorID: "m1", SectionID: "s2", MajorCode: "IST", YearLevelCode: "1", SectionCode: "B"},
		{ID: "r3", SubjectCode: "GE101", CourseID: "c2", MajorID: "m2", SectionID: "s3", MajorCode: "CS", YearLevelCode: "2", SectionCode: "A"},
	}
}

func teacherClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Email: "teacher@example.com"}
}

func newTestNavigationService(classes navigationRecordLister, profiles profileFinder, cacheRepo CacheRepository, cfg NavigationServiceConfig) *NavigationService {
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewNavigationService(NavigationServiceParams{
		Classes:  classes,
		Profiles: profiles,
		Cache:    cacheSvc,
		Metrics:  NewMetricsService(),
		Logger:   zap.NewNop(),
		Config:   cfg,
	})
}

func TestNavigationServiceSidebar_BuildsAndCachesRecords(t *testing.T) {
	classes := &fakeRecordLister{records: teacherRecords()}
	profiles := &fakeProfileFinder{profile: &models.UserProfile{ID: "u1", Email: "teacher@example.com", Name: "Ada Teacher"}}
	cacheRepo := &stubCacheRepo{}
	svc := newTestNavigationService(classes, profiles, cacheRepo, NavigationServiceConfig{DefaultAvatar: "/avatars/shadcn.jpg"})

	ctx := context.Background()
	sidebar, hit, err := svc.Sidebar(ctx, teacherClaims())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Ada Teacher", sidebar.User.Name)
	assert.Equal(t, "/avatars/shadcn.jpg", sidebar.User.Avatar)
	require.Len(t, sidebar.NavMain, 5)

	classesGroup := sidebar.NavMain[1]
	assert.Equal(t, GroupClasses, classesGroup.Name)
	require.Len(t, classesGroup.Items, 2)
	assert.Equal(t, "CC104", classesGroup.Items[0].Title)
	assert.Equal(t, "/classes/r1", classesGroup.Items[0].URL)
	assert.Len(t, classesGroup.Items[0].Children, 2)
	assert.Contains(t, cacheRepo.store, "nav:classes:user_id:u1")

	cached, hit2, err := svc.Sidebar(ctx, teacherClaims())
	require.NoError(t, err)
	assert.True(t, hit2)
	assert.Equal(t, 1, classes.calls)
	assert.Equal(t, sidebar, cached)
}

func TestNavigationServiceSidebar_DegradesOnFetchFailure(t *testing.T) {
	classes := &fakeRecordLister{err: errors.New("db down")}
	profiles := &fakeProfileFinder{err: errors.New("db down")}
	cacheRepo := &stubCacheRepo{}
	svc := newTestNavigationService(classes, profiles, cacheRepo, NavigationServiceConfig{})

	sidebar, hit, err := svc.Sidebar(context.Background(), &models.JWTClaims{UserID: "u1"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, fallbackDisplayName, sidebar.User.Name)
	assert.Equal(t, fallbackEmail, sidebar.User.Email)
	require.Len(t, sidebar.NavMain, 5)
	assert.NotNil(t, sidebar.NavMain[1].Items)
	assert.Empty(t, sidebar.NavMain[1].Items)
	assert.Empty(t, cacheRepo.store, "failed fetches must not be cached")
}

func TestNavigationServiceSidebar_ProfileFallsBackToClaims(t *testing.T) {
	profiles := &fakeProfileFinder{err: sql.ErrNoRows}
	svc := newTestNavigationService(&fakeRecordLister{}, profiles, nil, NavigationServiceConfig{})

	claims := &models.JWTClaims{UserID: "u1", Email: "claims@example.com", FullName: "  Claims Name "}
	sidebar, _, err := svc.Sidebar(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "Claims Name", sidebar.User.Name)
	assert.Equal(t, "claims@example.com", sidebar.User.Email)
}

func TestNavigationServiceSidebar_CacheErrorFallsThroughToDatabase(t *testing.T) {
	classes := &fakeRecordLister{records: teacherRecords()}
	cacheRepo := &stubCacheRepo{getErr: errors.New("redis unavailable")}
	svc := newTestNavigationService(classes, nil, cacheRepo, NavigationServiceConfig{})

	sidebar, hit, err := svc.Sidebar(context.Background(), teacherClaims())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, classes.calls)
	assert.Len(t, sidebar.NavMain[1].Items, 2)
}

func TestNavigationServiceSidebar_OwnerKeyEmail(t *testing.T) {
	classes := &fakeRecordLister{}
	svc := newTestNavigationService(classes, nil, nil, NavigationServiceConfig{OwnerKey: models.OwnerKeyEmail})

	_, _, err := svc.Sidebar(context.Background(), teacherClaims())
	require.NoError(t, err)
	require.Len(t, classes.owners, 1)
	assert.Equal(t, models.NavigationOwner{Key: models.OwnerKeyEmail, Value: "teacher@example.com"}, classes.owners[0])

	_, _, err = svc.Sidebar(context.Background(), &models.JWTClaims{UserID: "u1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestNavigationServiceSidebar_MissingClaims(t *testing.T) {
	svc := newTestNavigationService(&fakeRecordLister{}, nil, nil, NavigationServiceConfig{})

	sidebar, hit, err := svc.Sidebar(context.Background(), nil)
	assert.Nil(t, sidebar)
	assert.False(t, hit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestNavigationServiceBreadcrumbs(t *testing.T) {
	svc := newTestNavigationService(&fakeRecordLister{records: teacherRecords()}, nil, nil, NavigationServiceConfig{})

	trail, err := svc.Breadcrumbs(context.Background(), teacherClaims(), "/classes/c1/m1/s1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, models.BreadcrumbItem{Title: "Dashboard", URL: "/dashboard"}, trail[0])
	assert.Equal(t, models.BreadcrumbItem{Title: "IST 1 A", URL: "/classes/c1/m1/s1", IsCurrent: true}, trail[1])

	trail, err = svc.Breadcrumbs(context.Background(), teacherClaims(), "/nowhere")
	require.NoError(t, err)
	assert.Len(t, trail, 1)
}

func TestNavigationServiceExport(t *testing.T) {
	svc := newTestNavigationService(&fakeRecordLister{records: teacherRecords()}, nil, nil, NavigationServiceConfig{})
	svc.now = func() time.Time { return time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), teacherClaims(), "CSV")
	require.NoError(t, err)
	assert.Equal(t, "classes-20240902.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Subject,Section,URL", lines[0])
	assert.Equal(t, "CC104,IST 1 A,/classes/c1/m1/s1", lines[1])
	assert.Equal(t, "GE101,CS 2 A,/classes/c2/m2/s3", lines[3])

	pdf, err := svc.Export(context.Background(), teacherClaims(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))
}

func TestNavigationServiceExport_UnknownFormat(t *testing.T) {
	classes := &fakeRecordLister{records: teacherRecords()}
	svc := newTestNavigationService(classes, nil, nil, NavigationServiceConfig{})

	file, err := svc.Export(context.Background(), teacherClaims(), "xlsx")
	assert.Nil(t, file)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
	assert.Zero(t, classes.calls)
}

func TestNavigationServiceRefresh(t *testing.T) {
	classes := &fakeRecordLister{records: teacherRecords()}
	cacheRepo := &stubCacheRepo{}
	svc := newTestNavigationService(classes, nil, cacheRepo, NavigationServiceConfig{})
	ctx := context.Background()

	_, _, err := svc.Sidebar(ctx, teacherClaims())
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx, teacherClaims()))
	assert.Equal(t, []string{"nav:classes:user_id:u1"}, cacheRepo.patterns)

	_, hit, err := svc.Sidebar(ctx, teacherClaims())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, classes.calls)

	err = svc.Refresh(ctx, nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestNavigationServiceRefresh_EmailOwnerIgnoresCase(t *testing.T) {
	classes := &fakeRecordLister{records: teacherRecords()}
	cacheRepo := &stubCacheRepo{}
	svc := newTestNavigationService(classes, nil, cacheRepo, NavigationServiceConfig{OwnerKey: models.OwnerKeyEmail})
	ctx := context.Background()

	_, _, err := svc.Sidebar(ctx, &models.JWTClaims{UserID: "u1", Email: "Teacher@Example.com"})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.store, "nav:classes:email:teacher@example.com")

	require.NoError(t, svc.Refresh(ctx, &models.JWTClaims{UserID: "u1", Email: "teacher@example.com"}))
	assert.Empty(t, cacheRepo.store)

	_, hit, err := svc.Sidebar(ctx, &models.JWTClaims{UserID: "u1", Email: "Teacher@Example.com"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, classes.calls)
	assert.Equal(t, "teacher@example.com", classes.owners[1].Value)
}

func TestClassRows_PairsSectionsWithSubjects(t *testing.T) {
	groups := []models.NavigationGroup{
		{Name: GroupHome, Items: []models.NavigationNode{
			{Title: "Dashboard", URL: "/dashboard", Children: []models.NavigationNode{{Title: "Overview", URL: "/dashboard/overview"}}},
		}},
		{Name: GroupClasses, Items: []models.NavigationNode{
			{Title: "CC104", URL: "/classes/r1", Children: []models.NavigationNode{
				{Title: "IST 1 A", URL: "/classes/c1/m1/s1"},
				{Title: "IST 1 B", URL: "/classes/c1/m1/s2"},
			}},
			{Title: "GE101", URL: "/classes/r3", Children: []models.NavigationNode{}},
		}},
	}

	assert.Equal(t, [][]string{
		{"CC104", "IST 1 A", "/classes/c1/m1/s1"},
		{"CC104", "IST 1 B", "/classes/c1/m1/s2"},
	}, classRows(groups))
	assert.Empty(t, classRows(nil))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `nav:classes:email:a\*b\?c\[d\]`, escapeGlob("nav:classes:email:a*b?c[d]"))
}

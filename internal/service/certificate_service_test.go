package service

import (
	"bytes"
	"context"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildChecklist(t *testing.T) {
	modules := []model.Module{
		moduleWithLessons(1, "Intro", 10),
		moduleWithLessons(2, "Advanced", 20, 21),
	}

	items, eligible := BuildChecklist(modules, completedSet(LessonKey(10), LessonKey(20)))
	require.Len(t, items, 2)
	assert.True(t, items[0].Done)
	assert.False(t, items[1].Done)
	assert.False(t, eligible)

	_, eligible = BuildChecklist(modules, completedSet(LessonKey(10), LessonKey(20), LessonKey(21)))
	assert.True(t, eligible)
}

func TestBuildChecklistEmptyModuleDoesNotBlock(t *testing.T) {
	modules := []model.Module{
		moduleWithLessons(1, "Intro", 10),
		moduleWithLessons(2, "Placeholder"), // no lessons yet
	}

	_, eligible := BuildChecklist(modules, completedSet(LessonKey(10)))
	assert.True(t, eligible)
}

func TestBuildChecklistNoLessonsNeverEligible(t *testing.T) {
	modules := []model.Module{
		moduleWithLessons(1, "Placeholder"),
	}

	_, eligible := BuildChecklist(modules, completedSet())
	assert.False(t, eligible)

	_, eligible = BuildChecklist(nil, completedSet())
	assert.False(t, eligible)
}

func snapshot(formationID uint, title string, cert *model.Certificate, modules []model.Module, completed map[string]bool) FormationSnapshot {
	return FormationSnapshot{
		Formation: model.Formation{
			BaseModel: model.BaseModel{ID: formationID},
			Title:     title,
		},
		Certificate: cert,
		Modules:     modules,
		Completed:   completed,
	}
}

func TestResolveStatusPriority(t *testing.T) {
	eligibleModules := []model.Module{moduleWithLessons(1, "Intro", 10)}
	done := completedSet(LessonKey(10))

	// Obtained beats eligible regardless of ordering.
	cert := &model.Certificate{FormationID: 2}
	status := ResolveStatus([]FormationSnapshot{
		snapshot(1, "Eligible one", nil, eligibleModules, done),
		snapshot(2, "Finished one", cert, nil, nil),
	})
	assert.Equal(t, CertificateObtained, status.State)
	assert.Equal(t, uint(2), status.FormationID)
	assert.Same(t, cert, status.Certificate)

	// Eligible beats locked.
	status = ResolveStatus([]FormationSnapshot{
		snapshot(3, "Locked one", nil, eligibleModules, completedSet()),
		snapshot(1, "Eligible one", nil, eligibleModules, done),
	})
	assert.Equal(t, CertificateEligible, status.State)
	assert.Equal(t, uint(1), status.FormationID)
	assert.NotEmpty(t, status.Checklist)
}

func TestResolveStatusLocked(t *testing.T) {
	modules := []model.Module{moduleWithLessons(1, "Intro", 10, 11)}

	status := ResolveStatus([]FormationSnapshot{
		snapshot(1, "In progress", nil, modules, completedSet(LessonKey(10))),
	})
	assert.Equal(t, CertificateLocked, status.State)
	require.Len(t, status.Checklist, 1)
	assert.Equal(t, 1, status.Checklist[0].CompletedLessons)
	assert.Equal(t, 2, status.Checklist[0].TotalLessons)
}

func TestResolveStatusNoEnrollments(t *testing.T) {
	status := ResolveStatus(nil)
	assert.Equal(t, CertificateLocked, status.State)
	assert.Zero(t, status.FormationID)
}

type fakeCertStore struct {
	certs []model.Certificate
}

func (f *fakeCertStore) Create(cert *model.Certificate) error {
	cert.ID = uint(len(f.certs) + 1)
	f.certs = append(f.certs, *cert)
	return nil
}

func (f *fakeCertStore) FindByUser(userID uint) ([]model.Certificate, error) {
	var out []model.Certificate
	for _, c := range f.certs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCertStore) Exists(userID, formationID uint) (bool, error) {
	for _, c := range f.certs {
		if c.UserID == userID && c.FormationID == formationID {
			return true, nil
		}
	}
	return false, nil
}

type fakeEnrollmentSource struct {
	formations map[uint]*model.Formation
}

func (f *fakeEnrollmentSource) FindEnrolled(userID uint) ([]model.Formation, error) {
	var out []model.Formation
	for _, formation := range f.formations {
		out = append(out, *formation)
	}
	return out, nil
}

func (f *fakeEnrollmentSource) FindByID(id uint) (*model.Formation, error) {
	formation, ok := f.formations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return formation, nil
}

type fakeModuleSource struct {
	modules map[uint][]model.Module
}

func (f *fakeModuleSource) FindByFormationWithLessons(formationID uint) ([]model.Module, error) {
	return f.modules[formationID], nil
}

type fakeCompletionSource struct {
	completed map[uint]map[string]bool
}

func (f *fakeCompletionSource) CompletedLessonKeys(userID, formationID uint) (map[string]bool, error) {
	return f.completed[formationID], nil
}

type fakeLearnerSource struct {
	users map[uint]*model.User
}

func (f *fakeLearnerSource) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeRenderer struct {
	rendered []CertificateData
}

func (f *fakeRenderer) Render(ctx context.Context, data CertificateData) (io.Reader, int64, error) {
	f.rendered = append(f.rendered, data)
	doc := []byte("%PDF-1.4 fake")
	return bytes.NewReader(doc), int64(len(doc)), nil
}

type fakeUploader struct {
	uploads []string
}

func (f *fakeUploader) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	f.uploads = append(f.uploads, filename)
	return "https://cdn.example.com/" + filename, nil
}

func newCertificateFixture() (*CertificateService, *fakeCertStore, *fakeRenderer, *fakeUploader) {
	certs := &fakeCertStore{}
	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}

	formations := &fakeEnrollmentSource{formations: map[uint]*model.Formation{
		1: {BaseModel: model.BaseModel{ID: 1}, Title: "Go Basics", TrainerID: 2},
	}}
	modules := &fakeModuleSource{modules: map[uint][]model.Module{
		1: {moduleWithLessons(1, "Intro", 10)},
	}}
	completions := &fakeCompletionSource{completed: map[uint]map[string]bool{
		1: completedSet(LessonKey(10)),
	}}
	users := &fakeLearnerSource{users: map[uint]*model.User{
		7: {BaseModel: model.BaseModel{ID: 7}, Name: "Ada Learner"},
		2: {BaseModel: model.BaseModel{ID: 2}, Name: "Tom Trainer"},
	}}

	svc := NewCertificateService(certs, formations, modules, completions, users, renderer, uploader)
	return svc, certs, renderer, uploader
}

func TestIssueCertificate(t *testing.T) {
	svc, certs, renderer, uploader := newCertificateFixture()

	cert, err := svc.Issue(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada Learner", cert.LearnerName)
	assert.Equal(t, "Tom Trainer", cert.TrainerName)
	assert.Equal(t, "Go Basics", cert.FormationTitle)
	assert.Contains(t, cert.CertificateURL, "certificates/7-1-")
	require.Len(t, renderer.rendered, 1)
	require.Len(t, uploader.uploads, 1)
	assert.Len(t, certs.certs, 1)

	// Issuing twice is rejected.
	_, err = svc.Issue(context.Background(), 7, 1)
	assert.ErrorIs(t, err, util.ErrCertificateExists)
	assert.Len(t, certs.certs, 1)
}

func TestIssueCertificateNotEligible(t *testing.T) {
	svc, certs, _, _ := newCertificateFixture()
	svc.Progress = &fakeCompletionSource{completed: map[uint]map[string]bool{
		1: completedSet(), // nothing finished
	}}

	_, err := svc.Issue(context.Background(), 7, 1)
	assert.ErrorIs(t, err, util.ErrNotEligible)
	assert.Empty(t, certs.certs)
}

func TestStatusAfterIssue(t *testing.T) {
	svc, _, _, _ := newCertificateFixture()

	status, err := svc.Status(7)
	require.NoError(t, err)
	assert.Equal(t, CertificateEligible, status.State)

	_, err = svc.Issue(context.Background(), 7, 1)
	require.NoError(t, err)

	status, err = svc.Status(7)
	require.NoError(t, err)
	assert.Equal(t, CertificateObtained, status.State)
	assert.Equal(t, uint(1), status.FormationID)
}

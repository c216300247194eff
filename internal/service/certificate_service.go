package service

import (
	"bytes"
	"context"
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"edutrack_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// CertificateData is what the document renderer needs to produce the PDF.
type CertificateData struct {
	LearnerName    string    `json:"learnerName"`
	TrainerName    string    `json:"trainerName"`
	FormationTitle string    `json:"formationTitle"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// CertificateRenderer is the external document-rendering collaborator.
type CertificateRenderer interface {
	Render(ctx context.Context, data CertificateData) (io.Reader, int64, error)
}

// HTTPRenderer posts the certificate data to a rendering endpoint that
// answers with the document bytes.
type HTTPRenderer struct {
	cfg    *config.RendererConfig
	client *http.Client
}

func NewHTTPRenderer(cfg *config.Config) *HTTPRenderer {
	timeout := cfg.Renderer.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPRenderer{
		cfg:    &cfg.Renderer,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, data CertificateData) (io.Reader, int64, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(doc), int64(len(doc)), nil
}

type CertificateState string

const (
	CertificateObtained CertificateState = "obtained"
	CertificateEligible CertificateState = "eligible"
	CertificateLocked   CertificateState = "locked"
)

type ChecklistItem struct {
	ModuleID         uint   `json:"moduleId"`
	Title            string `json:"title"`
	CompletedLessons int    `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
	Done             bool   `json:"done"`
}

type CertificateStatus struct {
	State       CertificateState   `json:"state"`
	FormationID uint               `json:"formationId"`
	Formation   string             `json:"formation"`
	Certificate *model.Certificate `json:"certificate,omitempty"`
	Checklist   []ChecklistItem    `json:"checklist,omitempty"`
}

// FormationSnapshot is the per-candidate view the resolver works on.
type FormationSnapshot struct {
	Formation   model.Formation
	Certificate *model.Certificate
	Modules     []model.Module
	Completed   map[string]bool
}

// BuildChecklist reports per-module completion for the eligibility view. The
// formation is eligible only when every item is done; a formation without any
// lesson is never eligible.
func BuildChecklist(modules []model.Module, completed map[string]bool) ([]ChecklistItem, bool) {
	items := make([]ChecklistItem, 0, len(modules))
	eligible := true
	totalLessons := 0

	for i := range modules {
		mp := ComputeModuleProgress(&modules[i], completed)
		totalLessons += mp.TotalLessons
		done := mp.TotalLessons > 0 && mp.CompletedLessons == mp.TotalLessons
		if !done && mp.TotalLessons > 0 {
			eligible = false
		}
		items = append(items, ChecklistItem{
			ModuleID:         modules[i].ID,
			Title:            modules[i].Title,
			CompletedLessons: mp.CompletedLessons,
			TotalLessons:     mp.TotalLessons,
			Done:             done,
		})
	}

	if totalLessons == 0 {
		eligible = false
	}
	return items, eligible
}

// ResolveStatus picks one of the three mutually exclusive states in strict
// priority order: an already obtained certificate wins over an eligible
// formation, which wins over the locked fallback (first candidate).
func ResolveStatus(candidates []FormationSnapshot) *CertificateStatus {
	if len(candidates) == 0 {
		return &CertificateStatus{State: CertificateLocked}
	}

	for _, c := range candidates {
		if c.Certificate != nil {
			return &CertificateStatus{
				State:       CertificateObtained,
				FormationID: c.Formation.ID,
				Formation:   c.Formation.Title,
				Certificate: c.Certificate,
			}
		}
	}

	for _, c := range candidates {
		checklist, eligible := BuildChecklist(c.Modules, c.Completed)
		if eligible {
			return &CertificateStatus{
				State:       CertificateEligible,
				FormationID: c.Formation.ID,
				Formation:   c.Formation.Title,
				Checklist:   checklist,
			}
		}
	}

	first := candidates[0]
	checklist, _ := BuildChecklist(first.Modules, first.Completed)
	return &CertificateStatus{
		State:       CertificateLocked,
		FormationID: first.Formation.ID,
		Formation:   first.Formation.Title,
		Checklist:   checklist,
	}
}

type CertificateStore interface {
	Create(cert *model.Certificate) error
	FindByUser(userID uint) ([]model.Certificate, error)
	Exists(userID, formationID uint) (bool, error)
}

type EnrollmentSource interface {
	FindEnrolled(userID uint) ([]model.Formation, error)
	FindByID(id uint) (*model.Formation, error)
}

type ModuleSource interface {
	FindByFormationWithLessons(formationID uint) ([]model.Module, error)
}

type CompletionSource interface {
	CompletedLessonKeys(userID, formationID uint) (map[string]bool, error)
}

type LearnerSource interface {
	FindByID(id uint) (*model.User, error)
}

type Uploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type CertificateService struct {
	Certificates CertificateStore
	Formations   EnrollmentSource
	Modules      ModuleSource
	Progress     CompletionSource
	Users        LearnerSource
	Renderer     CertificateRenderer
	Storage      Uploader
}

func NewCertificateService(
	certificates CertificateStore,
	formations EnrollmentSource,
	modules ModuleSource,
	progress CompletionSource,
	users LearnerSource,
	renderer CertificateRenderer,
	storage Uploader,
) *CertificateService {
	return &CertificateService{
		Certificates: certificates,
		Formations:   formations,
		Modules:      modules,
		Progress:     progress,
		Users:        users,
		Renderer:     renderer,
		Storage:      storage,
	}
}

// Status resolves the learner's certificate state across every formation the
// learner is enrolled in.
func (s *CertificateService) Status(userID uint) (*CertificateStatus, error) {
	formations, err := s.Formations.FindEnrolled(userID)
	if err != nil {
		return nil, err
	}

	certs, err := s.Certificates.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	certByFormation := make(map[uint]*model.Certificate, len(certs))
	for i := range certs {
		certByFormation[certs[i].FormationID] = &certs[i]
	}

	candidates := make([]FormationSnapshot, 0, len(formations))
	for _, f := range formations {
		snapshot := FormationSnapshot{
			Formation:   f,
			Certificate: certByFormation[f.ID],
		}
		if snapshot.Certificate == nil {
			modules, err := s.Modules.FindByFormationWithLessons(f.ID)
			if err != nil {
				return nil, err
			}
			completed, err := s.Progress.CompletedLessonKeys(userID, f.ID)
			if err != nil {
				return nil, err
			}
			snapshot.Modules = modules
			snapshot.Completed = completed
		}
		candidates = append(candidates, snapshot)
	}

	return ResolveStatus(candidates), nil
}

// Issue renders and persists the certificate for an eligible formation. The
// learner triggers this explicitly from the eligible state.
func (s *CertificateService) Issue(ctx context.Context, userID, formationID uint) (*model.Certificate, error) {
	exists, err := s.Certificates.Exists(userID, formationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrCertificateExists
	}

	formation, err := s.Formations.FindByID(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}

	modules, err := s.Modules.FindByFormationWithLessons(formationID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Progress.CompletedLessonKeys(userID, formationID)
	if err != nil {
		return nil, err
	}
	if _, eligible := BuildChecklist(modules, completed); !eligible {
		return nil, util.ErrNotEligible
	}

	learner, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	trainer, err := s.Users.FindByID(formation.TrainerID)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	data := CertificateData{
		LearnerName:    learner.Name,
		TrainerName:    trainer.Name,
		FormationTitle: formation.Title,
		IssuedAt:       issuedAt,
	}

	doc, size, err := s.Renderer.Render(ctx, data)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("certificates/%d-%d-%s.pdf", userID, formationID, model.GenerateUUID())
	url, err := s.Storage.Upload(ctx, filename, doc, size, util.MimePDF)
	if err != nil {
		return nil, err
	}

	cert := &model.Certificate{
		UserID:         userID,
		FormationID:    formationID,
		FormationTitle: formation.Title,
		LearnerName:    learner.Name,
		TrainerName:    trainer.Name,
		CertificateURL: url,
		IssuedAt:       issuedAt,
	}
	if err := s.Certificates.Create(cert); err != nil {
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	return cert, nil
}

// List returns the learner's issued certificates, newest first.
func (s *CertificateService) List(userID uint) ([]model.Certificate, error) {
	return s.Certificates.FindByUser(userID)
}

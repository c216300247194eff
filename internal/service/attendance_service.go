package service

import (
	"context"
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"edutrack_backend/pkg/logger"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store interfaces are consumer-side so tests can substitute a fake backend;
// the gorm repositories satisfy them.

type AttendanceStore interface {
	CreateSession(session *model.AttendanceSession) error
	FindSessionByCode(formationID uint, code string) (*model.AttendanceSession, error)
	FindActiveSession(formationID uint) (*model.AttendanceSession, error)
	CreateMark(mark *model.AttendanceMark) error
	HasMark(userID, sessionID uint) (bool, error)
	FindMarksBySession(sessionID uint) ([]model.AttendanceMark, error)
}

type FormationDirectory interface {
	FindByID(id uint) (*model.Formation, error)
	ParticipantIDs(formationID uint) ([]uint, error)
}

type UserDirectory interface {
	FindByIDs(ids []uint) ([]model.User, error)
}

type AttendanceService struct {
	Attendance AttendanceStore
	Formations FormationDirectory
	Users      UserDirectory
	Push       PushSender
	Cfg        *config.Config
}

func NewAttendanceService(
	attendance AttendanceStore,
	formations FormationDirectory,
	users UserDirectory,
	push PushSender,
	cfg *config.Config,
) *AttendanceService {
	return &AttendanceService{
		Attendance: attendance,
		Formations: formations,
		Users:      users,
		Push:       push,
		Cfg:        cfg,
	}
}

type IssuedSession struct {
	SessionID uint      `json:"sessionId"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Notified  int       `json:"notified"`
}

// GenerateCode returns a uniform 4-digit numeric code in [1000, 9999).
func GenerateCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(8999))
}

// IssueSession creates a time-boxed code for a formation and fans a push
// notification out to enrolled participants. Participants without a push
// token are skipped; a push failure never invalidates the session.
func (s *AttendanceService) IssueSession(formationID uint) (*IssuedSession, error) {
	formation, err := s.Formations.FindByID(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}

	ttl := time.Duration(s.Cfg.Attendance.CodeTTLMinutes) * time.Minute
	session := &model.AttendanceSession{
		FormationID: formationID,
		Code:        GenerateCode(),
		ExpiresAt:   time.Now().Add(ttl),
		Active:      true,
	}

	if err := s.Attendance.CreateSession(session); err != nil {
		return nil, err
	}

	notified := s.notifyParticipants(formation, session.Code)

	return &IssuedSession{
		SessionID: session.ID,
		Code:      session.Code,
		ExpiresAt: session.ExpiresAt,
		Notified:  notified,
	}, nil
}

func (s *AttendanceService) notifyParticipants(formation *model.Formation, code string) int {
	ids, err := s.Formations.ParticipantIDs(formation.ID)
	if err != nil {
		logger.Log.Warn("failed to resolve participants for push",
			zap.Uint("formation", formation.ID), zap.Error(err))
		return 0
	}

	users, err := s.Users.FindByIDs(ids)
	if err != nil {
		logger.Log.Warn("failed to resolve push tokens",
			zap.Uint("formation", formation.ID), zap.Error(err))
		return 0
	}

	messages := make([]PushMessage, 0, len(users))
	for _, u := range users {
		if u.PushToken == "" {
			continue
		}
		messages = append(messages, PushMessage{
			To:    u.PushToken,
			Title: formation.Title,
			Body:  fmt.Sprintf("Attendance is open, your code is %s", code),
			Data: map[string]interface{}{
				"type":        "attendance",
				"formationId": formation.ID,
			},
		})
	}

	if s.Push != nil && len(messages) > 0 {
		go func(batch []PushMessage) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.Push.SendBatch(ctx, batch); err != nil {
				logger.Log.Warn("push dispatch failed",
					zap.Uint("formation", formation.ID), zap.Error(err))
			}
		}(messages)
	}
	return len(messages)
}

// ValidateCode records presence for a learner. Outcomes, in order: unknown
// (formation, code) pair or inactive session -> invalid, expiry in the past ->
// expired, an existing mark for (user, session) -> already marked. Exactly one
// mark is created on success.
func (s *AttendanceService) ValidateCode(formationID, userID uint, code string) (*model.AttendanceMark, error) {
	session, err := s.Attendance.FindSessionByCode(formationID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCode
		}
		return nil, err
	}

	if !session.Active {
		return nil, util.ErrInvalidCode
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, util.ErrExpiredCode
	}

	marked, err := s.Attendance.HasMark(userID, session.ID)
	if err != nil {
		return nil, err
	}
	if marked {
		return nil, util.ErrAlreadyMarked
	}

	mark := &model.AttendanceMark{
		UserID:      userID,
		FormationID: formationID,
		SessionID:   session.ID,
		MarkedAt:    time.Now(),
	}
	if err := s.Attendance.CreateMark(mark); err != nil {
		return nil, err
	}
	return mark, nil
}

// CurrentSession reports the active session of a formation, nil when none.
func (s *AttendanceService) CurrentSession(formationID uint) (*model.AttendanceSession, error) {
	session, err := s.Attendance.FindActiveSession(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// SessionMarks lists the marks recorded against one session.
func (s *AttendanceService) SessionMarks(sessionID uint) ([]model.AttendanceMark, error) {
	return s.Attendance.FindMarksBySession(sessionID)
}

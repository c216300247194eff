package service

import (
	"context"
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAttendanceStore struct {
	sessions []model.AttendanceSession
	marks    []model.AttendanceMark
}

func (f *fakeAttendanceStore) CreateSession(session *model.AttendanceSession) error {
	for i := range f.sessions {
		if f.sessions[i].FormationID == session.FormationID {
			f.sessions[i].Active = false
		}
	}
	session.ID = uint(len(f.sessions) + 1)
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeAttendanceStore) FindSessionByCode(formationID uint, code string) (*model.AttendanceSession, error) {
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.FormationID == formationID && s.Code == code {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceStore) FindActiveSession(formationID uint) (*model.AttendanceSession, error) {
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.FormationID == formationID && s.Active {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceStore) CreateMark(mark *model.AttendanceMark) error {
	mark.ID = uint(len(f.marks) + 1)
	f.marks = append(f.marks, *mark)
	return nil
}

func (f *fakeAttendanceStore) HasMark(userID, sessionID uint) (bool, error) {
	for _, m := range f.marks {
		if m.UserID == userID && m.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceStore) FindMarksBySession(sessionID uint) ([]model.AttendanceMark, error) {
	var out []model.AttendanceMark
	for _, m := range f.marks {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeFormationDirectory struct {
	formations   map[uint]*model.Formation
	participants map[uint][]uint
}

func (f *fakeFormationDirectory) FindByID(id uint) (*model.Formation, error) {
	formation, ok := f.formations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return formation, nil
}

func (f *fakeFormationDirectory) ParticipantIDs(formationID uint) ([]uint, error) {
	return f.participants[formationID], nil
}

type fakeUserDirectory struct {
	users map[uint]model.User
}

func (f *fakeUserDirectory) FindByIDs(ids []uint) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakePushSender struct {
	mu      sync.Mutex
	batches [][]PushMessage
}

func (f *fakePushSender) SendBatch(ctx context.Context, messages []PushMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, messages)
	return nil
}

func newAttendanceService(store *fakeAttendanceStore, formations *fakeFormationDirectory, users *fakeUserDirectory, push PushSender) *AttendanceService {
	cfg := &config.Config{}
	cfg.Attendance.CodeTTLMinutes = 15
	return NewAttendanceService(store, formations, users, push, cfg)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateCode()
		require.Len(t, code, 4)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestIssueSession(t *testing.T) {
	store := &fakeAttendanceStore{}
	formations := &fakeFormationDirectory{
		formations:   map[uint]*model.Formation{1: {BaseModel: model.BaseModel{ID: 1}, Title: "Go Basics"}},
		participants: map[uint][]uint{1: {10, 11, 12}},
	}
	users := &fakeUserDirectory{users: map[uint]model.User{
		10: {BaseModel: model.BaseModel{ID: 10}, PushToken: "tok-10"},
		11: {BaseModel: model.BaseModel{ID: 11}, PushToken: ""}, // no device registered
		12: {BaseModel: model.BaseModel{ID: 12}, PushToken: "tok-12"},
	}}
	svc := newAttendanceService(store, formations, users, &fakePushSender{})

	issued, err := svc.IssueSession(1)
	require.NoError(t, err)
	assert.Len(t, issued.Code, 4)
	assert.Equal(t, 2, issued.Notified)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Minute)

	// A second session deactivates the first.
	_, err = svc.IssueSession(1)
	require.NoError(t, err)
	assert.False(t, store.sessions[0].Active)
	assert.True(t, store.sessions[1].Active)
}

func TestIssueSessionUnknownFormation(t *testing.T) {
	svc := newAttendanceService(&fakeAttendanceStore{}, &fakeFormationDirectory{formations: map[uint]*model.Formation{}}, &fakeUserDirectory{}, nil)

	_, err := svc.IssueSession(99)
	assert.ErrorIs(t, err, util.ErrFormationNotFound)
}

func TestValidateCode(t *testing.T) {
	store := &fakeAttendanceStore{sessions: []model.AttendanceSession{{
		BaseModel:   model.BaseModel{ID: 1},
		FormationID: 1,
		Code:        "4821",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		Active:      true,
	}}}
	svc := newAttendanceService(store, &fakeFormationDirectory{}, &fakeUserDirectory{}, nil)

	_, err := svc.ValidateCode(1, 10, "0000")
	assert.ErrorIs(t, err, util.ErrInvalidCode)

	// Same code, wrong formation.
	_, err = svc.ValidateCode(2, 10, "4821")
	assert.ErrorIs(t, err, util.ErrInvalidCode)

	mark, err := svc.ValidateCode(1, 10, "4821")
	require.NoError(t, err)
	assert.Equal(t, uint(1), mark.SessionID)
	assert.Len(t, store.marks, 1)

	// The same learner cannot mark twice.
	_, err = svc.ValidateCode(1, 10, "4821")
	assert.ErrorIs(t, err, util.ErrAlreadyMarked)
	assert.Len(t, store.marks, 1)

	// A different learner still can.
	_, err = svc.ValidateCode(1, 11, "4821")
	require.NoError(t, err)
	assert.Len(t, store.marks, 2)
}

func TestValidateCodeExpired(t *testing.T) {
	store := &fakeAttendanceStore{sessions: []model.AttendanceSession{{
		BaseModel:   model.BaseModel{ID: 1},
		FormationID: 1,
		Code:        "4821",
		ExpiresAt:   time.Now().Add(-time.Minute),
		Active:      true,
	}}}
	svc := newAttendanceService(store, &fakeFormationDirectory{}, &fakeUserDirectory{}, nil)

	_, err := svc.ValidateCode(1, 10, "4821")
	assert.ErrorIs(t, err, util.ErrExpiredCode)
	assert.Empty(t, store.marks)
}

func TestValidateCodeInactiveSession(t *testing.T) {
	store := &fakeAttendanceStore{sessions: []model.AttendanceSession{{
		BaseModel:   model.BaseModel{ID: 1},
		FormationID: 1,
		Code:        "4821",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		Active:      false,
	}}}
	svc := newAttendanceService(store, &fakeFormationDirectory{}, &fakeUserDirectory{}, nil)

	_, err := svc.ValidateCode(1, 10, "4821")
	assert.ErrorIs(t, err, util.ErrInvalidCode)
}

func TestCurrentSession(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := newAttendanceService(store, &fakeFormationDirectory{}, &fakeUserDirectory{}, nil)

	session, err := svc.CurrentSession(1)
	require.NoError(t, err)
	assert.Nil(t, session)

	store.sessions = append(store.sessions, model.AttendanceSession{
		BaseModel:   model.BaseModel{ID: 1},
		FormationID: 1,
		Code:        "1234",
		Active:      true,
	})
	session, err = svc.CurrentSession(1)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "1234", session.Code)
}

package util

import "errors"

// Sentinel errors shared by the services. Controllers map these onto HTTP
// statuses; everything else surfaces as an internal error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrFormationNotFound  = errors.New("formation not found")
	ErrFormationFull      = errors.New("formation has reached its participant limit")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this formation")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrInvalidCode        = errors.New("invalid attendance code")
	ErrExpiredCode        = errors.New("attendance code has expired")
	ErrAlreadyMarked      = errors.New("attendance already recorded for this session")
	ErrQuizEmpty          = errors.New("module has no quiz questions")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	ErrNotEligible        = errors.New("formation not fully completed")
	ErrCertificateExists  = errors.New("certificate already issued for this formation")
)

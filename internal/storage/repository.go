package storage

import "time"

// Repository is the persistence contract the service layer depends on.
type Repository interface {
	CreateSession(s *Session) error
	GetSession(sessionID string) (*Session, error)
	UpdateSession(s *Session) error
	SaveSummary(rec *SummaryRecord) error
	GetSummary(sessionID string) (*SummaryRecord, error)
	// FindIdleSessions returns active sessions whose last action is at or
	// before the cutoff. The caller decides how to resolve them.
	FindIdleSessions(cutoff time.Time, limit int) ([]Session, error)
}

package storage

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a session or summary does not exist.
var ErrNotFound = errors.New("record not found")

// OpenAndMigrate opens (creating if needed) the sqlite database and keeps
// the schema updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Session{}, &SummaryRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a gorm DB in the Repository contract.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateSession(s *Session) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) GetSession(sessionID string) (*Session, error) {
	var s Session
	err := r.db.Where("session_id = ?", sessionID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) UpdateSession(s *Session) error {
	return r.db.Save(s).Error
}

func (r *sqliteRepository) SaveSummary(rec *SummaryRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetSummary(sessionID string) (*SummaryRecord, error) {
	var rec SummaryRecord
	err := r.db.Where("session_id = ?", sessionID).Order("id desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) FindIdleSessions(cutoff time.Time, limit int) ([]Session, error) {
	var sessions []Session
	err := r.db.
		Where("status != ? AND last_action_at <= ?", "ended", cutoff).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

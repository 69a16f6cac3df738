package database

import (
	"errors"

	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db}
}

// Store returns the key/value view of one browser session.
func (r *SessionRepo) Store(id string) session.Store {
	return &sessionNamespace{repo: r, namespace: id}
}

// Find returns the value stored under key, or ok=false when there is none.
func (r *SessionRepo) Find(namespace, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := r.db.Where("namespace = ? AND key = ?", namespace, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.NewDatabaseError("find", "session entry", err)
	}
	return entry.Value, true, nil
}

// Upsert inserts the entry or overwrites its value.
func (r *SessionRepo) Upsert(entry *models.SessionEntry) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return errs.NewDatabaseError("save", "session entry", err)
	}
	return nil
}

// Delete removes the given keys of one namespace.
func (r *SessionRepo) Delete(namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.db.Where("namespace = ? AND key IN ?", namespace, keys).Delete(&models.SessionEntry{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "session entries", err)
	}
	return nil
}

type sessionNamespace struct {
	repo      *SessionRepo
	namespace string
}

func (s *sessionNamespace) Get(key string) (string, bool, error) {
	return s.repo.Find(s.namespace, key)
}

func (s *sessionNamespace) Set(key, value string) error {
	return s.repo.Upsert(&models.SessionEntry{Namespace: s.namespace, Key: key, Value: value})
}

func (s *sessionNamespace) Delete(keys ...string) error {
	return s.repo.Delete(s.namespace, keys...)
}

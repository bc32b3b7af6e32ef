package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionValue is one persisted auth key (token, refresh, auth).
type SessionValue struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}

// KVStorage implements auth.Storage on a gorm table.
type KVStorage struct {
	db *gorm.DB
}

func NewKVStorage(db *gorm.DB) *KVStorage {
	return &KVStorage{db: db}
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var row SessionValue
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&SessionValue{Key: key, Value: value}).Error
}

func (s *KVStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("`key` IN ?", keys).Delete(&SessionValue{}).Error
}

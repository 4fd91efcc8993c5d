package db

import (
	"context"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KeyValueRepository struct {
	database *gorm.DB
}

func NewKeyValueRepository(database *gorm.DB) *KeyValueRepository {
	return &KeyValueRepository{database: database}
}

func (repo *KeyValueRepository) Get(ctx context.Context, userID uint, key string) (string, int64, bool, error) {
	entry := models.KeyValueEntry{}
	result := repo.database.WithContext(ctx).
		Where(`user_id = ? AND "key" = ?`, userID, key).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return "", 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", 0, false, nil
	}
	return entry.Value, entry.Revision, true, nil
}

// Put writes value when the stored revision still equals expectedRevision
// and returns the bumped revision. A missing key has revision 0.
func (repo *KeyValueRepository) Put(ctx context.Context, userID uint, key string, value string, expectedRevision int64) (int64, error) {
	nextRevision := expectedRevision + 1
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if expectedRevision == 0 {
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.KeyValueEntry{
				UserID:    userID,
				Key:       key,
				Value:     value,
				Revision:  nextRevision,
				UpdatedAt: time.Now().UTC(),
			})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.ErrStaleRevision
			}
			return nil
		}

		result := tx.Model(&models.KeyValueEntry{}).
			Where(`user_id = ? AND "key" = ? AND revision = ?`, userID, key, expectedRevision).
			Updates(map[string]any{
				"value":      value,
				"revision":   nextRevision,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrStaleRevision
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return nextRevision, nil
}

func (repo *KeyValueRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return repo.database.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.KeyValueEntry{}).Error
}

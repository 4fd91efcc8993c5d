package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CalendarRepository stores one row per occupied date and a per-user
// revision that every delta write must present.
type CalendarRepository struct {
	database *gorm.DB
}

func NewCalendarRepository(database *gorm.DB) *CalendarRepository {
	return &CalendarRepository{database: database}
}

func (repo *CalendarRepository) LoadCalendar(ctx context.Context, userID uint) (models.CalendarSnapshot, error) {
	snapshot := models.CalendarSnapshot{Days: models.CalendarMap{}}

	revision, err := loadCalendarRevision(repo.database.WithContext(ctx), userID)
	if err != nil {
		return models.CalendarSnapshot{}, err
	}
	snapshot.Revision = revision

	rows := make([]models.CalendarDay, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return models.CalendarSnapshot{}, err
	}

	for _, row := range rows {
		entries := make([]models.CalendarEntry, 0)
		if err := json.Unmarshal([]byte(row.Entries), &entries); err != nil {
			logrus.Errorf("db: calendar day %s for user %d is malformed, treating as empty: %v", row.Date, userID, err)
			snapshot.MalformedDates = append(snapshot.MalformedDates, row.Date)
			continue
		}
		normalized := make([]models.CalendarEntry, 0, len(entries))
		for _, entry := range entries {
			normalized = append(normalized, entry.Normalize())
		}
		if len(normalized) == 0 {
			continue
		}
		snapshot.Days[row.Date] = normalized
	}

	return snapshot, nil
}

// ApplyCalendarDelta writes only the changed dates. An empty entry list
// deletes the date. The write fails with models.ErrStaleRevision when the
// calendar changed since expectedRevision was read.
func (repo *CalendarRepository) ApplyCalendarDelta(ctx context.Context, userID uint, expectedRevision int64, delta map[string][]models.CalendarEntry) (int64, error) {
	nextRevision := expectedRevision + 1

	dates := make([]string, 0, len(delta))
	for date := range delta {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpCalendarRevision(tx, userID, expectedRevision); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, date := range dates {
			entries := delta[date]
			if len(entries) == 0 {
				if err := tx.Where("user_id = ? AND date = ?", userID, date).Delete(&models.CalendarDay{}).Error; err != nil {
					return fmt.Errorf("delete calendar day %s: %w", date, err)
				}
				continue
			}

			encoded, err := json.Marshal(entries)
			if err != nil {
				return fmt.Errorf("encode calendar day %s: %w", date, err)
			}
			row := models.CalendarDay{UserID: userID, Date: date, Entries: string(encoded), UpdatedAt: now}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("upsert calendar day %s: %w", date, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return nextRevision, nil
}

func (repo *CalendarRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CalendarDay{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CalendarRevision{}).Error
	})
}

func loadCalendarRevision(database *gorm.DB, userID uint) (int64, error) {
	revision := models.CalendarRevision{}
	result := database.Where("user_id = ?", userID).Limit(1).Find(&revision)
	if result.Error != nil {
		return 0, result.Error
	}
	return revision.Revision, nil
}

func bumpCalendarRevision(tx *gorm.DB, userID uint, expectedRevision int64) error {
	if expectedRevision == 0 {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CalendarRevision{
			UserID:   userID,
			Revision: 1,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrStaleRevision
		}
		return nil
	}

	result := tx.Model(&models.CalendarRevision{}).
		Where("user_id = ? AND revision = ?", userID, expectedRevision).
		Update("revision", expectedRevision+1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrStaleRevision
	}
	return nil
}

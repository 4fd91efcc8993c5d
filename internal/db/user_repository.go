package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/gymcal/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, bool, error) {
	var user models.User
	result := repo.database.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) FindByName(ctx context.Context, name string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindOrCreate returns the user called name, creating it on first use.
func (repo *UserRepository) FindOrCreate(ctx context.Context, name string, externalID string) (models.User, error) {
	user, err := repo.FindByName(ctx, name)
	if err == nil {
		if externalID != "" && user.ExternalID != externalID {
			user.ExternalID = externalID
			if err := repo.database.WithContext(ctx).Model(&user).Update("external_id", externalID).Error; err != nil {
				return models.User{}, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{
		Name:       strings.TrimSpace(name),
		ExternalID: strings.TrimSpace(externalID),
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.database.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

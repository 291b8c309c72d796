package store

import (
	"context"
	"errors"
	"time"

	"activeresident/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// active is the single soft-deletion predicate for user reads. Admin paths
// opt out with includeInactive.
func (u *UserStore) active(q *gorm.DB, includeInactive bool) *gorm.DB {
	if includeInactive {
		return q
	}
	return q.Where("is_active = ?", true)
}

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID, includeInactive bool) (*domain.User, error) {
	var user domain.User
	q := u.active(u.db.WithContext(ctx), includeInactive)
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByIDFull(ctx context.Context, id domain.UserID, includeInactive bool) (*domain.User, error) {
	var user domain.User
	q := u.active(u.db.WithContext(ctx), includeInactive).
		Preload("Address").
		Preload("Settings")
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string, includeInactive bool) (*domain.User, error) {
	var user domain.User
	q := u.active(u.db.WithContext(ctx), includeInactive)
	if err := q.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListNotifiable returns active users whose settings allow notifications,
// settings preloaded. Used by the new-report fan-out.
func (u *UserStore) ListNotifiable(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).
		Joins("JOIN user_settings ON user_settings.user_id = users.id").
		Where("users.is_active = ? AND user_settings.is_notification_allowed = ?", true, true).
		Preload("Settings").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserStore) UpdateFields(ctx context.Context, id domain.UserID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return u.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (u *UserStore) Deactivate(ctx context.Context, id domain.UserID, at time.Time) error {
	tx := u.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "deactivated_datetime": at})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) CreateAddress(ctx context.Context, addr *domain.UserAddress) error {
	return u.db.WithContext(ctx).Create(addr).Error
}

func (u *UserStore) UpdateAddressFields(ctx context.Context, userID domain.UserID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := u.db.WithContext(ctx).
		Model(&domain.UserAddress{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *UserStore) CreateSettings(ctx context.Context, set *domain.UserSetting) error {
	return u.db.WithContext(ctx).Create(set).Error
}

func (u *UserStore) GetSettings(ctx context.Context, userID domain.UserID) (*domain.UserSetting, error) {
	var set domain.UserSetting
	if err := u.db.WithContext(ctx).First(&set, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (u *UserStore) UpdateSettingsFields(ctx context.Context, userID domain.UserID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := u.db.WithContext(ctx).
		Model(&domain.UserSetting{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

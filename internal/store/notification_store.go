package store

import (
	"context"
	"errors"
	"time"

	"activeresident/internal/domain"

	"gorm.io/gorm"
)

type NotificationStore struct{ db *gorm.DB }

func (s *Store) Notifications() *NotificationStore { return &NotificationStore{db: s.DB} }

func (n *NotificationStore) Create(ctx context.Context, note *domain.Notification) error {
	return n.db.WithContext(ctx).Create(note).Error
}

// GetFor is scoped to the owning user; another user's id behaves like a
// missing row.
func (n *NotificationStore) GetFor(ctx context.Context, id domain.NotificationID, userID domain.UserID) (*domain.Notification, error) {
	var note domain.Notification
	err := n.db.WithContext(ctx).
		First(&note, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (n *NotificationStore) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.Notification, error) {
	var notes []domain.Notification
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_datetime DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (n *NotificationStore) MarkRead(ctx context.Context, id domain.NotificationID, userID domain.UserID, at time.Time) error {
	tx := n.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_datetime", at)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (n *NotificationStore) Delete(ctx context.Context, id domain.NotificationID) error {
	tx := n.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Notification{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

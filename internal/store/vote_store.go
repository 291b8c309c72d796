package store

import (
	"context"
	"errors"

	"activeresident/internal/domain"

	"gorm.io/gorm"
)

type VoteStore struct{ db *gorm.DB }

func (s *Store) Votes() *VoteStore { return &VoteStore{db: s.DB} }

// Create inserts the vote row. The (user_id, report_id) unique constraint
// turns a second vote into ErrDuplicateVote; a dangling report reference
// becomes ErrReportNotFound. Both rely on driver error translation.
func (v *VoteStore) Create(ctx context.Context, vote *domain.Vote) error {
	err := v.db.WithContext(ctx).Create(vote).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateVote
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrReportNotFound
	default:
		return err
	}
}

func (v *VoteStore) GetFor(ctx context.Context, userID domain.UserID, reportID domain.ReportID) (*domain.Vote, error) {
	var vote domain.Vote
	err := v.db.WithContext(ctx).
		First(&vote, "user_id = ? AND report_id = ?", userID, reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &vote, nil
}

func (v *VoteStore) SetPolarity(ctx context.Context, id domain.VoteID, isPositive bool) error {
	return v.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("id = ?", id).
		Update("is_positive", isPositive).Error
}

func (v *VoteStore) Delete(ctx context.Context, id domain.VoteID) error {
	tx := v.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Vote{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountFor recomputes the counters from vote rows. Not used on hot paths;
// kept for consistency checks.
func (v *VoteStore) CountFor(ctx context.Context, reportID domain.ReportID, isPositive bool) (int64, error) {
	var count int64
	err := v.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("report_id = ? AND is_positive = ?", reportID, isPositive).
		Count(&count).Error
	return count, err
}

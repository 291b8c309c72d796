package store

import (
	"context"
	"encoding/json"
	"errors"

	"activeresident/internal/domain"

	"gorm.io/gorm"
)

type ReportStore struct{ db *gorm.DB }

func (s *Store) Reports() *ReportStore { return &ReportStore{db: s.DB} }

func (r *ReportStore) Create(ctx context.Context, rep *domain.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportStore) CreateAddress(ctx context.Context, addr *domain.ReportAddress) error {
	return r.db.WithContext(ctx).Create(addr).Error
}

func (r *ReportStore) CreatePhoto(ctx context.Context, photo *domain.ReportPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *ReportStore) GetByID(ctx context.Context, id domain.ReportID, full bool) (*domain.Report, error) {
	q := r.db.WithContext(ctx)
	if full {
		q = q.Preload("Address").
			Preload("Photos").
			Preload("User").
			Preload("User.Settings")
	}
	var rep domain.Report
	if err := q.First(&rep, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// Exists reports row presence without loading the aggregate.
func (r *ReportStore) Exists(ctx context.Context, id domain.ReportID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *ReportStore) UpdateFields(ctx context.Context, id domain.ReportID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", id).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReportStore) UpdateAddressFields(ctx context.Context, reportID domain.ReportID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.ReportAddress{}).
		Where("report_id = ?", reportID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddVoteDelta moves the denormalized counters as an atomic SQL expression.
// Two concurrent callers both land their increment; there is no
// read-modify-write through application memory.
func (r *ReportStore) AddVoteDelta(ctx context.Context, id domain.ReportID, dPos, dNeg int) error {
	updates := map[string]any{}
	if dPos != 0 {
		updates["votes_pos"] = gorm.Expr("votes_pos + ?", dPos)
	}
	if dNeg != 0 {
		updates["votes_neg"] = gorm.Expr("votes_neg + ?", dNeg)
	}
	if len(updates) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", id).
		UpdateColumns(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// Delete removes the report row and its owned rows. Votes, photos, the
// address, and report-scoped notifications go first so the delete is whole
// even when the engine was migrated without FK cascades.
func (r *ReportStore) Delete(ctx context.Context, id domain.ReportID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("report_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", id).Delete(&domain.ReportPhoto{}).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", id).Delete(&domain.ReportAddress{}).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
		return err
	}
	tx := db.Where("id = ?", id).Delete(&domain.Report{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Feed returns reports ordered by the summed photo ai_score (descending,
// missing scores count as zero) with published_datetime ascending as the tie
// break. The public view hides anything not yet published or already closed.
func (r *ReportStore) Feed(ctx context.Context, adminView bool) ([]domain.Report, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Select("reports.*, COALESCE(SUM(report_photos.ai_score), 0) AS feed_score").
		Joins("LEFT JOIN report_photos ON report_photos.report_id = reports.id").
		Group("reports.id").
		Order("feed_score DESC").
		Order("COALESCE(reports.published_datetime, '1970-01-01 00:00:00') ASC")

	if !adminView {
		q = q.Where("reports.status IN ?", []domain.ReportStatus{domain.StatusPublished, domain.StatusInProgress})
	}

	var reports []domain.Report
	if err := q.Preload("Address").Preload("Photos").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportStore) GetPhoto(ctx context.Context, photoID domain.PhotoID) (*domain.ReportPhoto, error) {
	var photo domain.ReportPhoto
	if err := r.db.WithContext(ctx).First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *ReportStore) SetPhotoAssessment(ctx context.Context, photoID domain.PhotoID, score int, labels []string) error {
	raw, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.ReportPhoto{}).
		Where("id = ?", photoID).
		Updates(map[string]any{"ai_score": score, "ai_labels": raw})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

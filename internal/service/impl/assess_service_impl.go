package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"activeresident/internal/domain"
	"activeresident/internal/live"
	"activeresident/internal/observability/metrics"
	"activeresident/internal/service"
	"activeresident/internal/storage"
	"activeresident/internal/store"
	"activeresident/internal/vision"
)

type AssessServiceImpl struct {
	Store      *store.Store
	Blobs      storage.Storage
	Classifier vision.Classifier
	Events     service.Broadcaster

	now func() time.Time
}

func NewAssessServiceImpl(st *store.Store, blobs storage.Storage, classifier vision.Classifier, events service.Broadcaster) *AssessServiceImpl {
	return &AssessServiceImpl{
		Store:      st,
		Blobs:      blobs,
		Classifier: classifier,
		Events:     events,
		now:        time.Now,
	}
}

func (s *AssessServiceImpl) AssessReport(ctx context.Context, reportID domain.ReportID) error {
	rep, err := s.Store.Reports().GetByID(ctx, reportID, true)
	if err != nil {
		return err
	}

	inappropriate := false
	for _, photo := range rep.Photos {
		data, err := s.Blobs.Retrieve(ctx, photo.FilenamePath)
		if err != nil {
			metrics.PhotoAssessmentsTotal.WithLabelValues("failure").Inc()
			slog.Error("photo blob unavailable for assessment", "photo_id", photo.ID, "error", err)
			continue
		}
		res, err := s.Classifier.Classify(ctx, data)
		if err != nil {
			metrics.PhotoAssessmentsTotal.WithLabelValues("failure").Inc()
			slog.Error("photo classification failed", "photo_id", photo.ID, "error", err)
			continue
		}
		if err := s.Store.Reports().SetPhotoAssessment(ctx, photo.ID, res.Score, res.Labels); err != nil {
			metrics.PhotoAssessmentsTotal.WithLabelValues("failure").Inc()
			return fmt.Errorf("persist assessment for photo %d: %w", photo.ID, err)
		}
		metrics.PhotoAssessmentsTotal.WithLabelValues("success").Inc()
		if res.Inappropriate {
			inappropriate = true
		}
	}

	if inappropriate {
		fields := map[string]any{
			"status":     domain.StatusCancelled,
			"admin_note": "Cancelled automatically: a photo was flagged as inappropriate.",
		}
		if err := s.Store.Reports().UpdateFields(ctx, reportID, fields); err != nil {
			return err
		}
	}

	s.Events.Publish(live.Event{ReportID: reportID})
	return nil
}

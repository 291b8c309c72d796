package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
	"activeresident/internal/live"
	"activeresident/internal/observability/metrics"
	"activeresident/internal/service"
	"activeresident/internal/storage"
	"activeresident/internal/store"
	"activeresident/internal/tasks"
)

type ReportServiceImpl struct {
	Store    *store.Store
	Blobs    storage.Storage
	Events   service.Broadcaster
	Tasks    tasks.Queue
	Assessor service.AssessService
	Notifier service.NotificationService

	now func() time.Time
}

func NewReportServiceImpl(st *store.Store, blobs storage.Storage, events service.Broadcaster, queue tasks.Queue) *ReportServiceImpl {
	return &ReportServiceImpl{
		Store:  st,
		Blobs:  blobs,
		Events: events,
		Tasks:  queue,
		now:    time.Now,
	}
}

func (s *ReportServiceImpl) Create(ctx context.Context, ident auth.Identity, in dto.ReportCreate, photos []dto.PhotoUpload) (*domain.Report, error) {
	if strings.TrimSpace(in.Note) == "" {
		return nil, fmt.Errorf("%w: note is required", domain.ErrValidationFailed)
	}
	if in.Address.Latitude == nil || in.Address.Longitude == nil {
		return nil, fmt.Errorf("%w: address latitude and longitude are required", domain.ErrValidationFailed)
	}

	ownerID := in.UserID
	if ownerID == 0 {
		ownerID = ident.ID
	}
	if !ident.IsAdmin && ownerID != ident.ID {
		return nil, domain.ErrPermissionDenied
	}

	// Blobs go out first; their tokens are rolled back by hand if the
	// row transaction fails, so a failed creation leaves neither rows nor
	// orphaned files behind.
	tokens := make([]string, 0, len(photos))
	cleanup := func() {
		for _, token := range tokens {
			if err := s.Blobs.Remove(ctx, token); err != nil {
				slog.Warn("orphaned photo blob not removed", "token", token, "error", err)
			}
		}
	}
	for _, p := range photos {
		token, err := s.Blobs.Store(ctx, p.Data, p.Extension)
		if err != nil {
			cleanup()
			metrics.ReportsCreatedTotal.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("%w: storing photo: %v", domain.ErrCreateFailed, err)
		}
		tokens = append(tokens, token)
	}

	rep := &domain.Report{
		UserID:         ownerID,
		Status:         domain.StatusReported,
		Note:           in.Note,
		ReportDatetime: s.now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Reports().Create(ctx, rep); err != nil {
			return err
		}
		addr := &domain.ReportAddress{
			ReportID:   rep.ID,
			Building:   in.Address.Building,
			Street:     in.Address.Street,
			City:       in.Address.City,
			State:      in.Address.State,
			PostalCode: in.Address.PostalCode,
			Country:    in.Address.Country,
			Latitude:   *in.Address.Latitude,
			Longitude:  *in.Address.Longitude,
		}
		if err := tx.Reports().CreateAddress(ctx, addr); err != nil {
			return err
		}
		for _, token := range tokens {
			photo := &domain.ReportPhoto{ReportID: rep.ID, FilenamePath: token}
			if err := tx.Reports().CreatePhoto(ctx, photo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		metrics.ReportsCreatedTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrCreateFailed, err)
	}
	metrics.ReportsCreatedTotal.WithLabelValues("success").Inc()

	reportID := rep.ID
	if s.Assessor != nil {
		s.Tasks.Enqueue("assess_report", func(ctx context.Context) {
			if err := s.Assessor.AssessReport(ctx, reportID); err != nil {
				slog.Error("report assessment failed", "report_id", reportID, "error", err)
			}
		})
	}
	if s.Notifier != nil {
		s.Tasks.Enqueue("notify_new_report", func(ctx context.Context) {
			if err := s.Notifier.NotifyNewReport(ctx, reportID); err != nil {
				slog.Error("new report fan-out failed", "report_id", reportID, "error", err)
			}
		})
	}
	s.Events.Publish(live.Event{ReportID: reportID})

	return s.Store.Reports().GetByID(ctx, reportID, true)
}

func (s *ReportServiceImpl) Get(ctx context.Context, id domain.ReportID, full bool) (*domain.Report, error) {
	return s.Store.Reports().GetByID(ctx, id, full)
}

func (s *ReportServiceImpl) Update(ctx context.Context, ident auth.Identity, id domain.ReportID, patch dto.ReportPatch) (*domain.Report, error) {
	rep, err := s.Store.Reports().GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !ident.IsAdmin && rep.UserID != ident.ID {
		return nil, domain.ErrPermissionDenied
	}

	fields := map[string]any{}
	if patch.Note != nil {
		if strings.TrimSpace(*patch.Note) == "" {
			return nil, fmt.Errorf("%w: note must not be empty", domain.ErrValidationFailed)
		}
		fields["note"] = *patch.Note
	}

	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		if len(fields) > 0 {
			if err := tx.Reports().UpdateFields(ctx, id, fields); err != nil {
				return err
			}
		}
		if patch.Address != nil {
			return tx.Reports().UpdateAddressFields(ctx, id, addressPatchFields(patch.Address))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(live.Event{ReportID: id})
	return s.Store.Reports().GetByID(ctx, id, true)
}

func (s *ReportServiceImpl) AdminUpdate(ctx context.Context, ident auth.Identity, id domain.ReportID, patch dto.AdminReportPatch) (*domain.Report, error) {
	if !ident.IsAdmin {
		return nil, domain.ErrPermissionDenied
	}
	rep, err := s.Store.Reports().GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Note != nil {
		fields["note"] = *patch.Note
	}
	if patch.AdminNote != nil {
		fields["admin_note"] = *patch.AdminNote
	}
	if patch.VotesPos != nil {
		fields["votes_pos"] = *patch.VotesPos
	}
	if patch.VotesNeg != nil {
		fields["votes_neg"] = *patch.VotesNeg
	}
	if patch.ReportDatetime != nil {
		fields["report_datetime"] = patch.ReportDatetime.UTC()
	}
	if patch.PublishedDatetime != nil {
		fields["published_datetime"] = patch.PublishedDatetime.UTC()
	}
	if patch.Status != nil {
		status := domain.ReportStatus(*patch.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidationFailed, *patch.Status)
		}
		fields["status"] = status
		// Promotion stamps the publish time unless the admin set one
		// explicitly.
		if status == domain.StatusPublished && rep.PublishedDatetime == nil && patch.PublishedDatetime == nil {
			fields["published_datetime"] = s.now().UTC()
		}
	}

	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		if len(fields) > 0 {
			if err := tx.Reports().UpdateFields(ctx, id, fields); err != nil {
				return err
			}
		}
		if patch.Address != nil {
			return tx.Reports().UpdateAddressFields(ctx, id, addressPatchFields(patch.Address))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(live.Event{ReportID: id})
	return s.Store.Reports().GetByID(ctx, id, true)
}

func (s *ReportServiceImpl) Delete(ctx context.Context, ident auth.Identity, id domain.ReportID) error {
	rep, err := s.Store.Reports().GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if !ident.IsAdmin && rep.UserID != ident.ID {
		return domain.ErrPermissionDenied
	}

	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		return tx.Reports().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, photo := range rep.Photos {
		if err := s.Blobs.Remove(ctx, photo.FilenamePath); err != nil {
			slog.Warn("photo blob not removed on report delete", "token", photo.FilenamePath, "error", err)
		}
	}
	s.Events.Publish(live.Event{ReportID: id})
	return nil
}

func (s *ReportServiceImpl) Feed(ctx context.Context, adminView bool) ([]domain.Report, error) {
	return s.Store.Reports().Feed(ctx, adminView)
}

func (s *ReportServiceImpl) Photo(ctx context.Context, photoID domain.PhotoID) (*domain.ReportPhoto, []byte, error) {
	photo, err := s.Store.Reports().GetPhoto(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.Blobs.Retrieve(ctx, photo.FilenamePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve photo blob %s: %w", photo.FilenamePath, err)
	}
	return photo, data, nil
}

// addressPatchFields turns the provided sub-fields into a column update map;
// absent pointers never touch their column.
func addressPatchFields(p *dto.ReportAddressPatch) map[string]any {
	fields := map[string]any{}
	if p.Building != nil {
		fields["building"] = *p.Building
	}
	if p.Street != nil {
		fields["street"] = *p.Street
	}
	if p.City != nil {
		fields["city"] = *p.City
	}
	if p.State != nil {
		fields["state"] = *p.State
	}
	if p.PostalCode != nil {
		fields["postal_code"] = *p.PostalCode
	}
	if p.Country != nil {
		fields["country"] = *p.Country
	}
	if p.Latitude != nil {
		fields["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		fields["longitude"] = *p.Longitude
	}
	return fields
}

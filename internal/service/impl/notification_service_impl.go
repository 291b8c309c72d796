package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/observability/metrics"
	"activeresident/internal/store"
)

type NotificationServiceImpl struct {
	Store *store.Store

	now func() time.Time
}

func NewNotificationServiceImpl(st *store.Store) *NotificationServiceImpl {
	return &NotificationServiceImpl{Store: st, now: time.Now}
}

func (s *NotificationServiceImpl) NotifyNewReport(ctx context.Context, reportID domain.ReportID) error {
	rep, err := s.Store.Reports().GetByID(ctx, reportID, true)
	if err != nil {
		return err
	}
	users, err := s.Store.Users().ListNotifiable(ctx)
	if err != nil {
		return err
	}

	title := "New report in your area"
	note := fmt.Sprintf("A new issue was reported: %s", truncate(rep.Note, 120))
	sent := s.now().UTC()

	// Every notifiable user gets the announcement, the reporter included;
	// their copy doubles as a submission receipt.
	for _, u := range users {
		n := &domain.Notification{
			UserID:       u.ID,
			ReportID:     &rep.ID,
			Title:        title,
			Note:         note,
			SentDatetime: sent,
		}
		if err := s.Store.Notifications().Create(ctx, n); err != nil {
			slog.Error("notification write failed", "user_id", u.ID, "report_id", rep.ID, "error", err)
			continue
		}
		metrics.NotificationsCreatedTotal.WithLabelValues("new_report").Inc()
	}
	return nil
}

func (s *NotificationServiceImpl) NotifyVote(ctx context.Context, reportID domain.ReportID) error {
	rep, err := s.Store.Reports().GetByID(ctx, reportID, true)
	if err != nil {
		return err
	}
	if rep.User == nil || !rep.User.IsActive {
		return nil
	}
	set := rep.User.Settings
	if set == nil || !set.IsNotificationAllowed || !set.IsOnreactNotification {
		return nil
	}

	n := &domain.Notification{
		UserID:       rep.UserID,
		ReportID:     &rep.ID,
		Title:        "Your report got a reaction",
		Note:         fmt.Sprintf("Your report now stands at %d for and %d against.", rep.VotesPos, rep.VotesNeg),
		SentDatetime: s.now().UTC(),
	}
	if err := s.Store.Notifications().Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsCreatedTotal.WithLabelValues("vote").Inc()
	return nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, ident auth.Identity) ([]domain.Notification, error) {
	return s.Store.Notifications().ListForUser(ctx, ident.ID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, ident auth.Identity, id domain.NotificationID) (*domain.Notification, error) {
	if err := s.Store.Notifications().MarkRead(ctx, id, ident.ID, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.Store.Notifications().GetFor(ctx, id, ident.ID)
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, id domain.NotificationID) error {
	return s.Store.Notifications().Delete(ctx, id)
}

// truncate shortens s to at most max runes. Cutting on rune boundaries
// keeps accented characters in report notes intact.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

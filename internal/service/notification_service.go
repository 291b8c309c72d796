package service

import (
	"context"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
)

type NotificationService interface {
	// NotifyNewReport fans out one notification per active user whose
	// settings allow notifications. Runs on the task dispatcher.
	NotifyNewReport(ctx context.Context, reportID domain.ReportID) error
	// NotifyVote notifies the report owner of a reaction, gated on the
	// owner's notification toggles.
	NotifyVote(ctx context.Context, reportID domain.ReportID) error
	List(ctx context.Context, ident auth.Identity) ([]domain.Notification, error)
	MarkRead(ctx context.Context, ident auth.Identity, id domain.NotificationID) (*domain.Notification, error)
	Delete(ctx context.Context, id domain.NotificationID) error
}

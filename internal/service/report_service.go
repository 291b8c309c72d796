package service

import (
	"context"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
)

type ReportService interface {
	// Create writes the report, its address, and all photo rows atomically.
	Create(ctx context.Context, ident auth.Identity, in dto.ReportCreate, photos []dto.PhotoUpload) (*domain.Report, error)
	// Get returns the report; full eagerly loads address, photos, and the
	// owning user with settings.
	Get(ctx context.Context, id domain.ReportID, full bool) (*domain.Report, error)
	Update(ctx context.Context, ident auth.Identity, id domain.ReportID, patch dto.ReportPatch) (*domain.Report, error)
	AdminUpdate(ctx context.Context, ident auth.Identity, id domain.ReportID, patch dto.AdminReportPatch) (*domain.Report, error)
	Delete(ctx context.Context, ident auth.Identity, id domain.ReportID) error
	Feed(ctx context.Context, adminView bool) ([]domain.Report, error)
	// Photo resolves a stored photo row and streams its blob.
	Photo(ctx context.Context, photoID domain.PhotoID) (*domain.ReportPhoto, []byte, error)
}

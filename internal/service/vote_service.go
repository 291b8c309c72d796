package service

import (
	"context"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
)

type VoteService interface {
	Create(ctx context.Context, ident auth.Identity, in dto.VoteCreate) (*domain.Vote, error)
	Update(ctx context.Context, ident auth.Identity, in dto.VoteUpdate) (*domain.Vote, error)
	Delete(ctx context.Context, ident auth.Identity, userID domain.UserID, reportID domain.ReportID) error
	Get(ctx context.Context, ident auth.Identity, userID domain.UserID, reportID domain.ReportID) (*domain.Vote, error)
}

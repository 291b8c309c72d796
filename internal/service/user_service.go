package service

import (
	"context"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
)

type UserService interface {
	Signup(ctx context.Context, in dto.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Get(ctx context.Context, ident auth.Identity) (*domain.User, error)
	// AdminGet loads any account by id, deactivated ones included.
	AdminGet(ctx context.Context, ident auth.Identity, id domain.UserID) (*domain.User, error)
	// AdminDeactivate soft-deletes another user's account.
	AdminDeactivate(ctx context.Context, ident auth.Identity, id domain.UserID) error
	Update(ctx context.Context, ident auth.Identity, patch dto.UserPatch) (*domain.User, error)
	ChangePassword(ctx context.Context, ident auth.Identity, in dto.PasswordChangeRequest) error
	// Deactivate flips the soft-delete flag; the row stays.
	Deactivate(ctx context.Context, ident auth.Identity) error
	UpdateAddress(ctx context.Context, ident auth.Identity, patch dto.UserAddressPatch) (*domain.UserAddress, error)
	GetSettings(ctx context.Context, ident auth.Identity) (*domain.UserSetting, error)
	UpdateSettings(ctx context.Context, ident auth.Identity, patch dto.SettingsPatch) (*domain.UserSetting, error)
}

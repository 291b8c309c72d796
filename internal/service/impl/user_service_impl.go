package impl

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
	"activeresident/internal/store"

	"gorm.io/gorm"
)

const minPasswordLen = 8

type UserServiceImpl struct {
	Store  *store.Store
	Signer *auth.Signer

	now func() time.Time
}

func NewUserServiceImpl(st *store.Store, signer *auth.Signer) *UserServiceImpl {
	return &UserServiceImpl{Store: st, Signer: signer, now: time.Now}
}

func (s *UserServiceImpl) Signup(ctx context.Context, in dto.SignupRequest) (*domain.User, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrValidationFailed)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidationFailed)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidationFailed, minPasswordLen)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	usr := &domain.User{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           strings.ToLower(in.Email),
		PhoneNumber:     in.PhoneNumber,
		HashedPassword:  hashed,
		IsActive:        true,
		CreatedDatetime: s.now().UTC(),
	}

	// User, empty address row, and default settings land together or not
	// at all.
	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, usr); err != nil {
			return err
		}
		if err := tx.Users().CreateAddress(ctx, &domain.UserAddress{UserID: usr.ID}); err != nil {
			return err
		}
		return tx.Users().CreateSettings(ctx, domain.DefaultSettings(usr.ID))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email or phone number already registered", domain.ErrConflict)
		}
		return nil, err
	}
	return s.Store.Users().GetByIDFull(ctx, usr.ID, false)
}

func (s *UserServiceImpl) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	usr, err := s.Store.Users().GetByEmail(ctx, strings.ToLower(in.Email), true)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := auth.VerifyPassword(in.Password, usr.HashedPassword)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, domain.ErrUserDisabled
	}
	return s.issueTokens(usr.ID)
}

func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.Signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	usr, err := s.Store.Users().GetByID(ctx, userID, true)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, domain.ErrUserDisabled
	}
	return s.issueTokens(usr.ID)
}

func (s *UserServiceImpl) issueTokens(id domain.UserID) (*dto.TokenResponse, error) {
	access, err := s.Signer.IssueAccess(id)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Signer.IssueRefresh(id)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.Signer.AccessTTL().Seconds()),
	}, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, ident auth.Identity) (*domain.User, error) {
	return s.Store.Users().GetByIDFull(ctx, ident.ID, false)
}

func (s *UserServiceImpl) AdminGet(ctx context.Context, ident auth.Identity, id domain.UserID) (*domain.User, error) {
	if !ident.IsAdmin {
		return nil, domain.ErrPermissionDenied
	}
	return s.Store.Users().GetByIDFull(ctx, id, true)
}

func (s *UserServiceImpl) AdminDeactivate(ctx context.Context, ident auth.Identity, id domain.UserID) error {
	if !ident.IsAdmin {
		return domain.ErrPermissionDenied
	}
	return s.Store.Users().Deactivate(ctx, id, s.now().UTC())
}

// ResolveUser satisfies auth.UserResolver for the request middleware.
func (s *UserServiceImpl) ResolveUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.Store.Users().GetByID(ctx, id, true)
}

func (s *UserServiceImpl) Update(ctx context.Context, ident auth.Identity, patch dto.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, fmt.Errorf("%w: first name must not be empty", domain.ErrValidationFailed)
		}
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.PhoneNumber != nil {
		fields["phone_number"] = *patch.PhoneNumber
	}
	if patch.PicturePath != nil {
		fields["picture_path"] = *patch.PicturePath
	}
	if len(fields) > 0 {
		if err := s.Store.Users().UpdateFields(ctx, ident.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.Store.Users().GetByIDFull(ctx, ident.ID, false)
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, ident auth.Identity, in dto.PasswordChangeRequest) error {
	usr, err := s.Store.Users().GetByID(ctx, ident.ID, false)
	if err != nil {
		return err
	}
	ok, err := auth.VerifyPassword(in.OldPassword, usr.HashedPassword)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}
	if len(in.NewPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidationFailed, minPasswordLen)
	}
	hashed, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdateFields(ctx, ident.ID, map[string]any{"hashed_password": hashed})
}

func (s *UserServiceImpl) Deactivate(ctx context.Context, ident auth.Identity) error {
	return s.Store.Users().Deactivate(ctx, ident.ID, s.now().UTC())
}

func (s *UserServiceImpl) UpdateAddress(ctx context.Context, ident auth.Identity, patch dto.UserAddressPatch) (*domain.UserAddress, error) {
	fields := map[string]any{}
	if patch.Building != nil {
		fields["building"] = *patch.Building
	}
	if patch.Street != nil {
		fields["street"] = *patch.Street
	}
	if patch.City != nil {
		fields["city"] = *patch.City
	}
	if patch.State != nil {
		fields["state"] = *patch.State
	}
	if patch.PostalCode != nil {
		fields["postal_code"] = *patch.PostalCode
	}
	if patch.Country != nil {
		fields["country"] = *patch.Country
	}
	if len(fields) > 0 {
		if err := s.Store.Users().UpdateAddressFields(ctx, ident.ID, fields); err != nil {
			return nil, err
		}
	}
	usr, err := s.Store.Users().GetByIDFull(ctx, ident.ID, false)
	if err != nil {
		return nil, err
	}
	if usr.Address == nil {
		return nil, domain.ErrNotFound
	}
	return usr.Address, nil
}

func (s *UserServiceImpl) GetSettings(ctx context.Context, ident auth.Identity) (*domain.UserSetting, error) {
	return s.Store.Users().GetSettings(ctx, ident.ID)
}

func (s *UserServiceImpl) UpdateSettings(ctx context.Context, ident auth.Identity, patch dto.SettingsPatch) (*domain.UserSetting, error) {
	patch.Normalize()

	fields := map[string]any{}
	if patch.IsNameHidden != nil {
		fields["is_name_hidden"] = *patch.IsNameHidden
	}
	if patch.IsPhoneHidden != nil {
		fields["is_phone_hidden"] = *patch.IsPhoneHidden
	}
	if patch.IsEmailHidden != nil {
		fields["is_email_hidden"] = *patch.IsEmailHidden
	}
	if patch.IsPictureHidden != nil {
		fields["is_picture_hidden"] = *patch.IsPictureHidden
	}
	if patch.IsNotificationAllowed != nil {
		fields["is_notification_allowed"] = *patch.IsNotificationAllowed
	}
	if patch.IsLocalNotification != nil {
		fields["is_local_notification"] = *patch.IsLocalNotification
	}
	if patch.IsWeeklyNotification != nil {
		fields["is_weekly_notification"] = *patch.IsWeeklyNotification
	}
	if patch.IsOnchangeNotification != nil {
		fields["is_onchange_notification"] = *patch.IsOnchangeNotification
	}
	if patch.IsOnreactNotification != nil {
		fields["is_onreact_notification"] = *patch.IsOnreactNotification
	}
	if len(fields) > 0 {
		if err := s.Store.Users().UpdateSettingsFields(ctx, ident.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.Store.Users().GetSettings(ctx, ident.ID)
}

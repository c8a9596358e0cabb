package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"vocablearn/internal/domain"
	"vocablearn/internal/infrastructure/cache"
	"vocablearn/internal/infrastructure/repository"
	"vocablearn/internal/infrastructure/security"
	"vocablearn/internal/platform/logger"
)

// RegistrationDefaults are the field values stamped onto a fresh account.
type RegistrationDefaults struct {
	AvatarURL  string
	Role       string
	StartLevel int
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase struct {
	userRepo     *repository.UserRepository
	refreshStore cache.RefreshStore
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	defaults     RegistrationDefaults
	log          *logger.Logger
}

func NewAuthUsecase(
	ur *repository.UserRepository,
	rs cache.RefreshStore,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	defaults RegistrationDefaults,
	log *logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     ur,
		refreshStore: rs,
		hasher:       h,
		tokenManager: tm,
		defaults:     defaults,
		log:          log.With("usecase", "auth"),
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Password:     hash,
		DisplayName:  email,
		AvatarURL:    uc.defaults.AvatarURL,
		Role:         uc.defaults.Role,
		CurrentLevel: uc.defaults.StartLevel,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.Info("user registered", "userId", user.ID.String())
	return user, nil
}

// Login verifies credentials and issues a fresh token pair. A failed
// verification leaves the refresh store untouched.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := uc.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh rotates: the presented token is consumed atomically before a new
// pair is issued, so a concurrent refresh on the same token has exactly one
// winner and a replayed token always fails.
func (uc *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userIDStr, err := uc.refreshStore.Take(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	return uc.issueTokens(ctx, user)
}

// Logout revokes the refresh token. Revoking a token that is already gone
// reports ErrTokenInvalid rather than succeeding silently.
func (uc *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	err := uc.refreshStore.Delete(ctx, refreshToken)
	if errors.Is(err, cache.ErrTokenNotFound) {
		return domain.ErrTokenInvalid
	}
	return err
}

// ValidateAccess checks signature and expiry of an access token and loads the
// identity it names. Refresh-token state is never consulted here: access
// tokens stay valid until expiry even after logout.
func (uc *AuthUsecase) ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error) {
	sub, err := uc.tokenManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes the mutable profile fields. Nil pointers leave the
// current value in place.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName, avatarURL *string) (*domain.User, error) {
	fields := map[string]interface{}{}
	if displayName != nil {
		fields["display_name"] = *displayName
	}
	if avatarURL != nil {
		fields["avatar_url"] = *avatarURL
	}
	if len(fields) > 0 {
		if err := uc.userRepo.UpdateProfile(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.hasher.Compare(user.Password, oldPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, hash)
}

func (uc *AuthUsecase) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := uc.tokenManager.GenerateAccess(user)
	if err != nil {
		return nil, err
	}

	refresh := uc.tokenManager.NewRefreshToken()
	if err := uc.refreshStore.Save(ctx, refresh, user.ID.String()); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

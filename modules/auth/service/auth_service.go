package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/config"
	"community-calendar/core/constants"
	"community-calendar/core/errors"
	"community-calendar/core/logger"
	"community-calendar/core/middleware"
	"community-calendar/core/utils"
	"community-calendar/modules/auth/dto"
	"community-calendar/modules/auth/entity"
	"community-calendar/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCachePrefix = "session:"
	sessionCacheTTL    = 60 * time.Second

	passwordMinLength = 8
	inviteTTL         = 14 * 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResult, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	CreateInvite(ctx context.Context) (*dto.InviteResponse, *errors.AppError)

	middleware.SessionAuthenticator
}

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
	now   func() time.Time
}

func NewAuthService(repo repository.AuthRepositoryInterface, cacheClient cache.Cache) *AuthService {
	return &AuthService{
		repo:  repo,
		cache: cacheClient,
		now:   time.Now,
	}
}

// Register redeems an invite token and creates the account, returning a live
// session so the new user is logged in immediately.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResult, *errors.AppError) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	displayName := strings.TrimSpace(req.DisplayName)

	if !emailPattern.MatchString(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "A valid email address is required", nil)
	}
	if len(req.Password) < passwordMinLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Password must be at least %d characters", passwordMinLength), nil)
	}
	if displayName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Display name is required", nil)
	}
	if strings.TrimSpace(req.InviteToken) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "An invite token is required to register", nil)
	}

	invite, err := s.repo.GetInviteByToken(ctx, strings.TrimSpace(req.InviteToken))
	if err != nil {
		logger.Error("AuthService:Register:Invite", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check invite", err)
	}
	if invite == nil || !invite.IsUsable(s.now()) {
		return nil, errors.NewAppError(errors.ErrForbidden, "Invite token is invalid, used, or expired", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Error("AuthService:Register:Lookup", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "An account with that email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("AuthService:Register:Hash", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create account", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	})
	if err != nil {
		logger.Error("AuthService:Register:Create", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create account", err)
	}

	if err := s.repo.MarkInviteUsed(ctx, invite.ID, s.now()); err != nil {
		logger.Warn("AuthService:Register:MarkInvite", "invite_id", invite.ID, "error", err)
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, *errors.AppError) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	// Opportunistic cleanup; dead sessions pile up otherwise.
	if err := s.repo.DeleteExpiredSessions(ctx); err != nil {
		logger.Warn("AuthService:Login:Cleanup", "error", err)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Error("AuthService:Login:Lookup", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to log in", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSessionByToken(ctx, token); err != nil {
		logger.Error("AuthService:Logout", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to log out", err)
	}
	s.cache.Delete(ctx, sessionCachePrefix+token)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("AuthService:Me", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load profile", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return dto.ToUserResponse(user), nil
}

func (s *AuthService) CreateInvite(ctx context.Context) (*dto.InviteResponse, *errors.AppError) {
	token := utils.GenerateInviteToken()
	if token == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create invite", nil)
	}

	invite := &entity.Invite{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: s.now().Add(inviteTTL),
	}
	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		logger.Error("AuthService:CreateInvite", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create invite", err)
	}

	return &dto.InviteResponse{Token: invite.Token, ExpiresAt: invite.ExpiresAt}, nil
}

// Authenticate validates a session token: JWT signature and expiry first,
// then the session row so logout actually revokes. Resolved users are cached
// briefly to keep the per-request cost down.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*middleware.AuthenticatedUser, *utils.TokenClaims, error) {
	cfg := config.Get()

	claims, err := utils.ParseSessionToken(token, cfg.JWT.Secret)
	if err != nil {
		return nil, nil, err
	}

	if cached, ok := s.cache.Get(ctx, sessionCachePrefix+token); ok {
		var user middleware.AuthenticatedUser
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, claims, nil
		}
	}

	session, err := s.repo.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || s.now().After(session.ExpiresAt) {
		return nil, nil, errors.NewAppError(errors.ErrTokenExpired, "Session expired or revoked", nil)
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errors.NewAppError(errors.ErrUnauthorized, "User no longer exists", nil)
	}

	authed := &middleware.AuthenticatedUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if raw, err := json.Marshal(authed); err == nil {
		s.cache.Set(ctx, sessionCachePrefix+token, string(raw), sessionCacheTTL)
	}
	return authed, claims, nil
}

func (s *AuthService) openSession(ctx context.Context, user *entity.User) (*dto.LoginResult, *errors.AppError) {
	cfg := config.Get()
	ttl := time.Duration(constants.SessionTTLHours) * time.Hour
	expiresAt := s.now().Add(ttl)

	token, err := utils.GenerateSessionToken(user.ID, user.Email, cfg.JWT.Secret, ttl)
	if err != nil {
		logger.Error("AuthService:OpenSession:Token", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to start session", err)
	}

	if err := s.repo.CreateSession(ctx, &entity.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}); err != nil {
		logger.Error("AuthService:OpenSession", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to start session", err)
	}

	return &dto.LoginResult{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

const (
	msgEmailExists        = "Email already exists."
	msgInvalidCredentials = "Invalid email or password."
	msgInvalidRefresh     = "Invalid or expired refresh token."
)

// ErrUnauthenticated marks an access token that is malformed, expired or
// revoked.
var ErrUnauthenticated = errors.New("unauthenticated")

type AuthStore interface {
	UnitOfWork
	UserStore
	RefreshTokenStore
}

type AuthService struct {
	base
	store      AuthStore
	hasher     hash.Hasher
	signer     *tokens.Signer
	refreshTTL time.Duration
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(store AuthStore, hasher hash.Hasher, signer *tokens.Signer, refreshTTL time.Duration, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		base:       base{log: log, events: events},
		store:      store,
		hasher:     hasher,
		signer:     signer,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) result.Result[struct{}] {
	l := s.logger(ctx, "auth.register")

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "email and password are required")
		return result.Fail[struct{}](result.StatusBadRequest, "Email and password are required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid email", "error", err)
		return result.Fail[struct{}](result.StatusBadRequest, "Email is not valid.")
	}

	pwHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return result.Internal[struct{}]()
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return result.Violate(result.StatusBadRequest, msgEmailExists)
		}
		if err := s.store.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return result.Violate(result.StatusBadRequest, msgEmailExists)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fail[struct{}](l, "register_error", err)
	}

	s.publish(ctx, l, TopicUserEvents, user.ID.String(), transport.UserRegisteredEvent{
		Type:       "user_registered",
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: s.now().UTC(),
	})

	l.Info("register_successful", "user_id", user.ID)
	return result.Created(struct{}{}, "User registered successfully.")
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) result.Result[transport.LoginResponse] {
	l := s.logger(ctx, "auth.login")

	email := normalizeEmail(req.Email)
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return fail[transport.LoginResponse](l, "login_error", fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		// Spend the same hashing work as a wrong password would.
		s.hasher.Verify(req.Password, s.fallbackHash(l))
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return result.Fail[transport.LoginResponse](result.StatusUnauthorized, msgInvalidCredentials)
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return result.Fail[transport.LoginResponse](result.StatusUnauthorized, msgInvalidCredentials)
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return fail[transport.LoginResponse](l, "login_error", err)
	}

	expiresAt, err := tokens.GetExpiration(pair.AccessToken)
	if err != nil {
		return fail[transport.LoginResponse](l, "login_error", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return result.OK(transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    expiresAt,
	}, "Login successful.")
}

// fallbackHash is a hash of a random secret made with the configured hasher,
// used to verify against when the login email is unknown.
func (s *AuthService) fallbackHash(l *slog.Logger) string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			l.Error("fallback_hash_error", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// IssueTokenPair revokes every token the user holds and issues a new
// access/refresh pair. It joins the caller's unit of work when there is one.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (transport.TokenPair, error) {
	var pair transport.TokenPair

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.DeleteUserTokens(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user tokens: %w", err)
		}

		access, accessExp, err := s.signer.Sign(user.ID, user.Email)
		if err != nil {
			return err
		}
		refresh, err := tokens.RandomOpaqueToken()
		if err != nil {
			return err
		}

		rt := models.RefreshToken{
			UserID:    user.ID,
			ExpiresAt: s.now().UTC().Add(s.refreshTTL),
		}
		if err := s.store.SaveTokenPair(ctx, &rt, refresh, access); err != nil {
			return fmt.Errorf("save token pair: %w", err)
		}

		pair = transport.TokenPair{
			AccessToken:      access,
			RefreshToken:     refresh,
			AccessExpiresAt:  accessExp,
			RefreshExpiresAt: rt.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return transport.TokenPair{}, err
	}
	return pair, nil
}

// Refresh exchanges a stored, unexpired refresh token for a new pair. The
// presented token stops working once this returns successfully.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) result.Result[transport.TokenPair] {
	l := s.logger(ctx, "auth.refresh")

	if refreshToken == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "empty token")
		return result.Fail[transport.TokenPair](result.StatusUnauthorized, msgInvalidRefresh)
	}

	var pair transport.TokenPair
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		row, err := s.store.FindRefreshToken(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("find refresh token: %w", err)
		}
		if row == nil {
			l.Debug("refresh_rejected", "reason", "unknown token")
			return result.Violate(result.StatusUnauthorized, msgInvalidRefresh)
		}
		if !s.now().Before(row.ExpiresAt) {
			l.Debug("refresh_rejected", "reason", "expired token", "user_id", row.UserID)
			return result.Violate(result.StatusUnauthorized, msgInvalidRefresh)
		}

		user, err := s.store.FindUserByID(ctx, row.UserID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return result.Violate(result.StatusUnauthorized, msgInvalidRefresh)
		}

		pair, err = s.IssueTokenPair(ctx, user)
		return err
	})
	if err != nil {
		return fail[transport.TokenPair](l, "refresh_failed", err)
	}

	l.Info("refresh_successful")
	return result.OK(pair, "Token refreshed.")
}

// ValidateAccessToken reports whether a stored token row pairs userID with
// accessToken.
func (s *AuthService) ValidateAccessToken(ctx context.Context, userID uuid.UUID, accessToken string) (bool, error) {
	ok, err := s.store.AccessTokenPaired(ctx, userID, accessToken)
	if err != nil {
		return false, fmt.Errorf("validate access token: %w", err)
	}
	return ok, nil
}

// Authenticate verifies the token signature and lifetime, then checks it has
// not been revoked. Rejections wrap ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*tokens.AccessClaims, error) {
	claims, err := s.signer.Parse(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrUnauthenticated)
	}

	ok, err := s.ValidateAccessToken(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}
	return claims, nil
}

// Logout deletes every token the user holds, which also revokes the access
// token used for this request.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) result.Result[struct{}] {
	l := s.logger(ctx, "auth.logout")

	n, err := s.store.DeleteUserTokens(ctx, userID)
	if err != nil {
		return fail[struct{}](l, "logout_error", fmt.Errorf("delete user tokens: %w", err))
	}

	l.Info("logout_successful", "user_id", userID, "revoked", n)
	return result.OK(struct{}{}, "Logged out.")
}

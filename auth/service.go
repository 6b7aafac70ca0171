package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/config"
	"github.com/user/mytodolist-go/validate"
)

// invalidCredentials is deliberately identical for unknown emails and wrong
// passwords so failed logins cannot be used to probe which emails exist.
const invalidCredentials = "No matching user found for given login credentials"

// dummyPasswordHash is compared against on the unknown-email path so that
// failed logins cost a bcrypt verification either way, keeping response
// timing from revealing whether the email exists.
var dummyPasswordHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// AuthService implements registration, credential checks, session lifecycle
// and profile updates.
type AuthService struct {
	users    *UserStore
	sessions *SessionStore
	cfg      config.AuthConfig
}

// NewAuthService constructs an AuthService over the given stores.
func NewAuthService(users *UserStore, sessions *SessionStore, cfg config.AuthConfig) *AuthService {
	return &AuthService{users: users, sessions: sessions, cfg: cfg}
}

// Register creates a new account. The password is hashed before it reaches
// the store; the plaintext is never persisted. A duplicate email surfaces as
// a field-level validation error, not a distinct conflict status.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, User{
		Email:          req.Email,
		HashedPassword: string(hash),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperror.NewValidationError("validation failed", nil).
				WithFields(map[string][]string{"email": {"user with this email already exists."}})
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return s.toResponse(ctx, user)
}

// Login verifies the credentials and opens a session. The returned token is
// the value the handler places in the session cookie.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*UserResponse, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(req.Password))
			return nil, "", apperror.NewAuthError(invalidCredentials, nil)
		}
		return nil, "", apperror.NewDatabaseError("failed to look up user", err)
	}
	if !user.IsActive {
		return nil, "", apperror.NewAuthError(invalidCredentials, nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return nil, "", apperror.NewAuthError(invalidCredentials, nil)
	}

	session, err := s.sessions.Create(ctx, user.ID, s.cfg.SessionTTL)
	if err != nil {
		return nil, "", apperror.NewDatabaseError("failed to create session", err)
	}

	resp, err := s.toResponse(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return resp, session.Token, nil
}

// Logout tears down the session for the given token. It is idempotent: an
// empty or unknown token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperror.NewDatabaseError("failed to delete session", err)
	}
	return nil
}

// CurrentUser returns the representation of an authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, user User) (*UserResponse, error) {
	return s.toResponse(ctx, user)
}

// UpdateProfile applies a partial update to the user's account. A supplied
// password is re-hashed; an absent one leaves the existing hash untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	params := UpdateUserParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cfg.BcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		hashed := string(hash)
		params.HashedPassword = &hashed
	}

	user, err := s.users.UpdateUser(ctx, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			return nil, apperror.NewNotFoundError("user not found", nil)
		case errors.Is(err, ErrEmailTaken):
			return nil, apperror.NewValidationError("validation failed", nil).
				WithFields(map[string][]string{"email": {"user with this email already exists."}})
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return s.toResponse(ctx, user)
}

// SessionTTL exposes the configured session lifetime for cookie expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

func (s *AuthService) toResponse(ctx context.Context, user User) (*UserResponse, error) {
	perms, err := s.users.Permissions(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load permissions", err)
	}
	return newUserResponse(user, perms), nil
}

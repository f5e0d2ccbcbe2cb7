package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/library-api/backend/internal/db"
	"github.com/library-api/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailTaken               = errors.New("user with this email already exists")
	ErrUsernameTaken            = errors.New("username already taken")
	ErrTokenRevoked             = errors.New("token revoked")
	ErrUserNotFound             = errors.New("user not found")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrMisconfigured            = errors.New("auth config invalid")
)

type UserRepo interface {
	CreateUser(ctx context.Context, username, email, passwordHash, role string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// AuthService composes credential verification, token issuance and the
// revocation list into the login/logout/password flows.
type AuthService struct {
	users       UserRepo
	tokens      *TokenService
	revocations *RevocationService
}

func NewAuthService(users UserRepo, tokens *TokenService, revocations *RevocationService) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
	}
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

func (s *AuthService) Revocations() *RevocationService {
	return s.revocations
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, "", ErrInvalidInput
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !db.IsNoRows(err) {
		return nil, "", err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !db.IsNoRows(err) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateUser(ctx, req.Username, req.Email, string(hash), role)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, "", taken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("failed to update last_login for user %d: %v", user.ID, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate runs the full gate for a presented token: revocation check,
// then signature/expiry verification, then principal lookup. Each failure
// maps to its own sentinel so the middleware can answer precisely.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.revocations.IsRevoked(ctx, token) {
		return nil, ErrTokenRevoked
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) UpdateDetails(ctx context.Context, userID int64, req model.UpdateDetailsRequest) (*model.User, error) {
	user, err := s.users.UpdateUser(ctx, userID, model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword verifies the current password, stores the new hash and
// revokes the presented token so it cannot be replayed. A revocation
// failure is logged but does not fail the password change; the old token
// then simply lives until its natural expiry.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword, presentedToken string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)

	if _, err := s.users.UpdateUser(ctx, userID, model.UserUpdate{PasswordHash: &hashStr}); err != nil {
		return err
	}

	if presentedToken != "" {
		if err := s.revocations.Revoke(ctx, presentedToken, &userID, ReasonPasswordChange); err != nil {
			log.Printf("failed to blacklist token after password change for user %d: %v", userID, err)
		}
	}
	return nil
}

// Logout blacklists the presented token when one is there. It never fails
// the logout itself; a missed revocation only means the token stays valid
// until it expires on its own.
func (s *AuthService) Logout(ctx context.Context, token string, userID *int64) {
	if token == "" {
		return
	}
	if err := s.revocations.Revoke(ctx, token, userID, ReasonLogout); err != nil {
		log.Printf("failed to blacklist token on logout: %v", err)
	}
}

// uniqueViolation maps a postgres unique constraint error onto the
// matching user-facing sentinel, or nil when err is something else.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

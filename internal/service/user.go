package service

import (
	"context"
	"errors"

	"github.com/library-api/backend/internal/db"
	"github.com/library-api/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOwnRoleChange = errors.New("cannot change your own role")
	ErrSelfDelete    = errors.New("cannot delete your own account")
)

// UserService backs the admin-only user management routes.
type UserService struct {
	users UserRepo
}

func NewUserService(users UserRepo) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, req.Username, req.Email, string(hash), role)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}
	return user, nil
}

// Update applies an admin edit. Changing one's own role is reserved for
// super admins.
func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest, actor *model.User) (*model.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, ErrInvalidInput
		}
		if id == actor.ID && actor.Role != model.RoleSuperAdmin {
			return nil, ErrOwnRoleChange
		}
	}

	upd := model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		upd.PasswordHash = &hashStr
	}

	user, err := s.users.UpdateUser(ctx, id, upd)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return ErrSelfDelete
	}

	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

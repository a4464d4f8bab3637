package catalog

import (
	"context"

	"catalog-backend/apperr"
	"catalog-backend/logger"
	"catalog-backend/models"
	"catalog-backend/query"
	"catalog-backend/repository"
	"catalog-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserInput is the full state of a user write. An empty Role means models.RoleUser.
type UserInput struct {
	Username    string `validate:"required,min=3,max=50"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	PhoneNumber string `validate:"max=20"`
	Role        string `validate:"omitempty,oneof=user admin"`
}

type LoginResult struct {
	Token string
	Role  string
	User  *models.User
}

type UserService struct {
	repo repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: named(log, "user")}
}

func (s *UserService) List(ctx context.Context, req query.PageRequest) (query.Page[models.User], error) {
	req = req.Normalize()
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return query.Page[models.User]{}, err
	}
	return query.NewPage(items, req, total), nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// Create registers a user; username and email must both be unused.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, in, uuid.Nil); err != nil {
		return nil, err
	}

	u := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    in.Password,
		PhoneNumber: in.PhoneNumber,
		Role:        roleOrDefault(in.Role),
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user created", logger.EntityID(u.ID.String()), logger.Username(u.Username))
	return u, nil
}

// Update overwrites every field of an existing user.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UserInput) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, in, id); err != nil {
		return nil, err
	}

	u.Username = in.Username
	u.Email = in.Email
	u.Password = in.Password
	u.PhoneNumber = in.PhoneNumber
	u.Role = roleOrDefault(in.Role)
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user updated", logger.EntityID(id.String()))
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", logger.EntityID(id.String()))
	return nil
}

func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.repo.DeleteByUsername(ctx, username); err != nil {
		return err
	}
	s.log.Info("user deleted", logger.Username(username))
	return nil
}

// Login checks the password against the stored value and issues a bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if apperr.IsNotFound(err) {
		s.log.Warn("login failed", logger.Username(username))
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		s.log.Warn("login failed", logger.Username(username))
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", logger.Username(username))
	return &LoginResult{Token: token, Role: u.Role, User: u}, nil
}

func (s *UserService) checkUnique(ctx context.Context, in UserInput, self uuid.UUID) error {
	taken, err := s.repo.UsernameTaken(ctx, in.Username, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("user", "username", in.Username)
	}
	taken, err = s.repo.EmailTaken(ctx, in.Email, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("user", "email", in.Email)
	}
	return nil
}

func roleOrDefault(role string) string {
	if role == "" {
		return models.RoleUser
	}
	return role
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsdesk/helper"
	"newsdesk/models"
	"newsdesk/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AdminService holds the out-of-band operations used by newsdeskctl:
// publisher management and user provisioning with arbitrary roles.
type AdminService interface {
	CreatePublisher(ctx context.Context, name, description string) (*models.Publisher, error)
	DeletePublisher(ctx context.Context, id uint) error
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	AssignRole(ctx context.Context, username string, role models.UserRole) (*models.User, error)
}

type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
	Bio      string
}

type adminService struct {
	userRepo      repositories.UserRepository
	publisherRepo repositories.PublisherRepository
	cache         FeedCache
	hooks         []RoleHook
	log           *slog.Logger
}

func NewAdminService(userRepo repositories.UserRepository, publisherRepo repositories.PublisherRepository, cache FeedCache, log *slog.Logger, hooks ...RoleHook) AdminService {
	if cache == nil {
		cache = noopFeedCache{}
	}
	return &adminService{
		userRepo:      userRepo,
		publisherRepo: publisherRepo,
		cache:         cache,
		hooks:         hooks,
		log:           log,
	}
}

func (s *adminService) CreatePublisher(ctx context.Context, name, description string) (*models.Publisher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrorValidation{Message: "publisher name is required"}
	}

	publisher := &models.Publisher{Name: name, Description: strings.TrimSpace(description)}
	if err := s.publisherRepo.Create(ctx, publisher); err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	s.log.Info("publisher created", slog.Uint64("publisher_id", uint64(publisher.ID)), slog.String("name", name))
	return publisher, nil
}

// DeletePublisher removes a publisher with its articles and subscriptions.
// Cached feeds may still list those articles, so the generation moves on.
func (s *adminService) DeletePublisher(ctx context.Context, id uint) error {
	if err := s.publisherRepo.Delete(ctx, id); err != nil {
		return notFound(err, "publisher not found")
	}
	if err := s.cache.BumpGeneration(ctx); err != nil {
		s.log.Warn("feed cache generation bump failed", helper.Err(err))
	}
	s.log.Info("publisher deleted", slog.Uint64("publisher_id", uint64(id)))
	return nil
}

func (s *adminService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return s.publisherRepo.List(ctx)
}

func (s *adminService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, models.ErrorValidation{Message: "username is required"}
	}
	if req.Password == "" {
		return nil, models.ErrorValidation{Message: "password is required"}
	}
	role := req.Role
	if role == "" {
		role = models.RoleReader
	}
	if !role.Valid() {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("invalid role %q", role)}
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrorConflict{Message: "A user with that username already exists."}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashed),
		Role:     role,
		Bio:      req.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := runRoleHooks(ctx, s.hooks, user, ""); err != nil {
		return user, err
	}
	return user, nil
}

// AssignRole changes a user's role and runs the role hooks. Hook errors are
// returned after the role has already been stored.
func (s *adminService) AssignRole(ctx context.Context, username string, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("invalid role %q", role)}
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	previous := user.Role
	if err := s.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = role

	s.log.Info("role assigned",
		slog.String("username", user.Username),
		slog.String("previous", string(previous)),
		slog.String("role", string(role)),
	)

	if err := runRoleHooks(ctx, s.hooks, user, previous); err != nil {
		return user, err
	}
	return user, nil
}

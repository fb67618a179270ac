package repositories

import (
	"context"

	"newsdesk/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	UpdateRole(ctx context.Context, id uint, role models.UserRole) error

	FirstOrCreateGroup(ctx context.Context, name string) (*models.Group, error)
	ListGroups(ctx context.Context, userID uint) ([]models.Group, error)
	AddToGroup(ctx context.Context, userID uint, group *models.Group) error
	RemoveFromGroups(ctx context.Context, userID uint, groups []models.Group) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Groups").Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("username").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FirstOrCreateGroup(ctx context.Context, name string) (*models.Group, error) {
	group := models.Group{Name: name}
	err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&group).Error
	return &group, err
}

func (r *userRepository) ListGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Model(&models.User{ID: userID}).Association("Groups").Find(&groups)
	return groups, err
}

func (r *userRepository) AddToGroup(ctx context.Context, userID uint, group *models.Group) error {
	return r.db.WithContext(ctx).Model(&models.User{ID: userID}).Association("Groups").Append(group)
}

func (r *userRepository) RemoveFromGroups(ctx context.Context, userID uint, groups []models.Group) error {
	if len(groups) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.User{ID: userID}).Association("Groups").Delete(groups)
}

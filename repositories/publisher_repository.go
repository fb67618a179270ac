package repositories

import (
	"context"

	"newsdesk/models"

	"gorm.io/gorm"
)

type PublisherRepository interface {
	Create(ctx context.Context, publisher *models.Publisher) error
	GetByID(ctx context.Context, id uint) (*models.Publisher, error)
	List(ctx context.Context) ([]models.Publisher, error)
	Delete(ctx context.Context, id uint) error
}

type publisherRepository struct {
	db *gorm.DB
}

func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	return r.db.WithContext(ctx).Create(publisher).Error
}

func (r *publisherRepository) GetByID(ctx context.Context, id uint) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.WithContext(ctx).First(&publisher, id).Error
	return &publisher, err
}

func (r *publisherRepository) List(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&publishers).Error
	return publishers, err
}

// Delete removes the publisher together with its articles and subscriptions.
func (r *publisherRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publisher_id = ?", id).Delete(&models.PublisherSubscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("publisher_id = ?", id).Delete(&models.Article{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Publisher{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

package repositories

import (
	"context"

	"newsdesk/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetApprovedByID(ctx context.Context, id uint) (*models.Article, error)
	ListByStatus(ctx context.Context, status models.ArticleStatus) ([]models.Article, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Article, error)
	ListApprovedByPublishers(ctx context.Context, publisherIDs []uint) ([]models.Article, error)
	ListApprovedByAuthors(ctx context.Context, authorIDs []uint) ([]models.Article, error)
	UpdateDecision(ctx context.Context, article *models.Article) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// newest first; equal timestamps fall back to the later insert first
func (r *articleRepository) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Order("articles.created_at desc").
		Order("articles.id desc")
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit("Author", "Publisher").Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetApprovedByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Where("status = ?", models.StatusApproved).
		First(&article, id).Error
	return &article, err
}

func (r *articleRepository) ListByStatus(ctx context.Context, status models.ArticleStatus) ([]models.Article, error) {
	var articles []models.Article
	err := r.ordered(ctx).Where("status = ?", status).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.ordered(ctx).Where("author_id = ?", authorID).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListApprovedByPublishers(ctx context.Context, publisherIDs []uint) ([]models.Article, error) {
	if len(publisherIDs) == 0 {
		return []models.Article{}, nil
	}
	var articles []models.Article
	err := r.ordered(ctx).
		Where("status = ? AND publisher_id IN ?", models.StatusApproved, publisherIDs).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListApprovedByAuthors(ctx context.Context, authorIDs []uint) ([]models.Article, error) {
	if len(authorIDs) == 0 {
		return []models.Article{}, nil
	}
	var articles []models.Article
	err := r.ordered(ctx).
		Where("status = ? AND author_id IN ?", models.StatusApproved, authorIDs).
		Find(&articles).Error
	return articles, err
}

// UpdateDecision writes the review fields in a single UPDATE.
func (r *articleRepository) UpdateDecision(ctx context.Context, article *models.Article) error {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", article.ID).
		Updates(map[string]interface{}{
			"status":          article.Status,
			"decision_reason": article.DecisionReason,
			"decided_at":      article.DecidedAt,
			"updated_at":      article.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

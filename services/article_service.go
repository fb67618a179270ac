package services

import (
	"context"
	"errors"
	"strings"

	"newsdesk/models"
	"newsdesk/repositories"

	"gorm.io/gorm"
)

// ArticleService covers public reading and journalist authoring.
type ArticleService interface {
	CreateArticle(ctx context.Context, author *models.User, req models.CreateArticleRequest) (*models.Article, error)
	Dashboard(ctx context.Context, journalist *models.User) ([]models.Article, error)
	ListPublic(ctx context.Context) ([]models.ArticleResponse, error)
	GetPublic(ctx context.Context, id uint) (*models.ArticleResponse, error)
}

type articleService struct {
	articleRepo   repositories.ArticleRepository
	publisherRepo repositories.PublisherRepository
}

func NewArticleService(articleRepo repositories.ArticleRepository, publisherRepo repositories.PublisherRepository) ArticleService {
	return &articleService{
		articleRepo:   articleRepo,
		publisherRepo: publisherRepo,
	}
}

// CreateArticle stores a new article as pending. The author's role is checked
// here only; later role changes do not affect existing articles.
func (s *articleService) CreateArticle(ctx context.Context, author *models.User, req models.CreateArticleRequest) (*models.Article, error) {
	if err := Authorize(author, OpCreateArticle); err != nil {
		return nil, err
	}

	publisher, err := s.publisherRepo.GetByID(ctx, req.PublisherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorValidation{Message: "Select a valid publisher."}
		}
		return nil, err
	}

	article := &models.Article{
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Body,
		PublisherID: publisher.ID,
		AuthorID:    author.ID,
		Status:      models.StatusPending,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(ctx, article.ID)
}

func (s *articleService) Dashboard(ctx context.Context, journalist *models.User) ([]models.Article, error) {
	if err := Authorize(journalist, OpViewJournalistDashboard); err != nil {
		return nil, err
	}
	return s.articleRepo.ListByAuthor(ctx, journalist.ID)
}

func (s *articleService) ListPublic(ctx context.Context) ([]models.ArticleResponse, error) {
	articles, err := s.articleRepo.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	return models.NewArticleResponses(articles), nil
}

// GetPublic hides unapproved articles behind the same not-found error as
// missing ones.
func (s *articleService) GetPublic(ctx context.Context, id uint) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetApprovedByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "article not found")
	}
	resp := models.NewArticleResponse(*article)
	return &resp, nil
}

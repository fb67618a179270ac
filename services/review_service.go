package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/helper"
	"newsdesk/metrics"
	"newsdesk/models"
	"newsdesk/repositories"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewNotifier delivers the emails that follow an editor decision.
type ReviewNotifier interface {
	ArticleApproved(ctx context.Context, article *models.Article) error
	NewArticle(ctx context.Context, article *models.Article, recipients []string, articleURL string) error
	ArticleRejected(ctx context.Context, article *models.Article) error
}

// Announcer publishes an approved article to an external network. It never
// returns an error; false covers disabled, failed and timed out posts.
type Announcer interface {
	Post(ctx context.Context, article *models.Article, baseURL string) bool
}

type ReviewService interface {
	Queue(ctx context.Context, editor *models.User) ([]models.ArticleResponse, error)
	Decide(ctx context.Context, editor *models.User, articleID uint, req models.DecideRequest, baseURL string) (*models.DecisionResult, error)
	Approve(ctx context.Context, article *models.Article, baseURL string) (*models.DecisionResult, error)
	Reject(ctx context.Context, article *models.Article, reason string) (*models.DecisionResult, error)
}

type reviewService struct {
	articleRepo repositories.ArticleRepository
	subRepo     repositories.SubscriptionRepository
	notifier    ReviewNotifier
	announcer   Announcer
	cache       FeedCache
	metrics     metrics.Recorder
	log         *slog.Logger
	now         func() time.Time
}

func NewReviewService(
	articleRepo repositories.ArticleRepository,
	subRepo repositories.SubscriptionRepository,
	notifier ReviewNotifier,
	announcer Announcer,
	cache FeedCache,
	rec metrics.Recorder,
	log *slog.Logger,
) ReviewService {
	if cache == nil {
		cache = noopFeedCache{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &reviewService{
		articleRepo: articleRepo,
		subRepo:     subRepo,
		notifier:    notifier,
		announcer:   announcer,
		cache:       cache,
		metrics:     rec,
		log:         log,
		now:         time.Now,
	}
}

// Queue lists pending articles newest first.
func (s *reviewService) Queue(ctx context.Context, editor *models.User) ([]models.ArticleResponse, error) {
	if err := Authorize(editor, OpViewEditorQueue); err != nil {
		return nil, err
	}
	pending, err := s.articleRepo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return models.NewArticleResponses(pending), nil
}

// Decide applies an editor's action to an article. Decided articles may be
// decided again. An unknown action leaves the article untouched and is
// reported through a warning message rather than an error.
func (s *reviewService) Decide(ctx context.Context, editor *models.User, articleID uint, req models.DecideRequest, baseURL string) (*models.DecisionResult, error) {
	if err := Authorize(editor, OpDecideArticle); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, notFound(err, "article not found")
	}

	action := strings.TrimSpace(req.Action)
	switch action {
	case ActionApprove:
		return s.Approve(ctx, article, baseURL)
	case ActionReject:
		return s.Reject(ctx, article, strings.TrimSpace(req.Reason))
	default:
		result := &models.DecisionResult{Article: article, Action: action}
		result.AddMessage(models.LevelWarning, "Invalid action.")
		s.metrics.RecordDecision("invalid")
		return result, nil
	}
}

func (s *reviewService) Approve(ctx context.Context, article *models.Article, baseURL string) (*models.DecisionResult, error) {
	if err := s.transition(ctx, article, models.StatusApproved, ""); err != nil {
		return nil, err
	}
	result := &models.DecisionResult{Article: article, Action: ActionApprove, Applied: true}

	if article.Author.Email != "" {
		result.AuthorNotified = s.notify("article_approved", article, func() error {
			return s.notifier.ArticleApproved(ctx, article)
		})
		if !result.AuthorNotified {
			result.AddMessage(models.LevelInfo, "Author notification failed.")
		}
	}

	recipients, err := s.subRepo.SubscriberEmails(ctx, article.PublisherID, article.AuthorID)
	if err != nil {
		s.log.Error("listing subscriber emails", slog.Uint64("article_id", uint64(article.ID)), helper.Err(err))
		result.AddMessage(models.LevelInfo, "Subscriber notification failed.")
	} else if len(recipients) > 0 {
		articleURL := models.ArticleURL(baseURL, article.ID)
		if s.notify("new_article", article, func() error {
			return s.notifier.NewArticle(ctx, article, recipients, articleURL)
		}) {
			result.SubscribersNotified = len(recipients)
			result.AddMessage(models.LevelInfo, fmt.Sprintf("Subscribers notified (%d email(s)).", len(recipients)))
		} else {
			result.AddMessage(models.LevelInfo, "Subscriber notification failed.")
		}
	}

	result.Posted = s.announcer.Post(ctx, article, baseURL)
	s.metrics.RecordSocialPost(result.Posted)
	if result.Posted {
		result.AddMessage(models.LevelInfo, "Posted to X.")
	} else {
		result.AddMessage(models.LevelInfo, "X post skipped or failed.")
	}

	result.AddMessage(models.LevelSuccess, "Article approved and notifications sent.")
	return result, nil
}

func (s *reviewService) Reject(ctx context.Context, article *models.Article, reason string) (*models.DecisionResult, error) {
	if err := s.transition(ctx, article, models.StatusRejected, reason); err != nil {
		return nil, err
	}
	result := &models.DecisionResult{Article: article, Action: ActionReject, Applied: true}

	if article.Author.Email != "" {
		result.AuthorNotified = s.notify("article_rejected", article, func() error {
			return s.notifier.ArticleRejected(ctx, article)
		})
		if !result.AuthorNotified {
			result.AddMessage(models.LevelInfo, "Author notification failed.")
		}
	}

	result.AddMessage(models.LevelError, "Article rejected and author notified.")
	return result, nil
}

// transition stores the new status in one update. decided_at is refreshed on
// every decision and never cleared.
func (s *reviewService) transition(ctx context.Context, article *models.Article, status models.ArticleStatus, reason string) error {
	now := s.now()

	decided := *article
	decided.Status = status
	decided.DecisionReason = reason
	decided.DecidedAt = &now
	decided.UpdatedAt = now

	if err := s.articleRepo.UpdateDecision(ctx, &decided); err != nil {
		return fmt.Errorf("store %s decision for article %d: %w", strings.ToLower(string(status)), article.ID, notFound(err, "article not found"))
	}
	*article = decided

	s.metrics.RecordDecision(strings.ToLower(string(status)))
	if err := s.cache.BumpGeneration(ctx); err != nil {
		s.log.Warn("feed cache generation bump failed", helper.Err(err))
	}

	s.log.Info("article decided",
		slog.Uint64("article_id", uint64(article.ID)),
		slog.String("status", string(status)),
	)
	return nil
}

// notify runs one best-effort delivery and reports whether it succeeded.
func (s *reviewService) notify(kind string, article *models.Article, send func() error) bool {
	if err := send(); err != nil {
		s.metrics.RecordNotification("failed")
		s.log.Error("notification failed",
			slog.String("kind", kind),
			slog.Uint64("article_id", uint64(article.ID)),
			helper.Err(err),
		)
		return false
	}
	s.metrics.RecordNotification("sent")
	return true
}

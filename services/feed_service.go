package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"newsdesk/helper"
	"newsdesk/metrics"
	"newsdesk/models"
	"newsdesk/repositories"
)

// FeedCache stores computed feeds per reader. Get reports the version it
// looked up and Set must store under that version, so a feed built while a
// decision or toggle lands is never served afterwards.
type FeedCache interface {
	Get(ctx context.Context, kind models.FeedKind, userID uint) ([]models.ArticleResponse, models.FeedVersion, bool, error)
	Set(ctx context.Context, version models.FeedVersion, kind models.FeedKind, userID uint, items []models.ArticleResponse) error
	// InvalidateUser drops every feed of one reader.
	InvalidateUser(ctx context.Context, userID uint) error
	// BumpGeneration drops every cached feed.
	BumpGeneration(ctx context.Context) error
}

type noopFeedCache struct{}

func (noopFeedCache) Get(context.Context, models.FeedKind, uint) ([]models.ArticleResponse, models.FeedVersion, bool, error) {
	return nil, models.FeedVersion{}, false, nil
}
func (noopFeedCache) Set(context.Context, models.FeedVersion, models.FeedKind, uint, []models.ArticleResponse) error {
	return nil
}
func (noopFeedCache) InvalidateUser(context.Context, uint) error { return nil }
func (noopFeedCache) BumpGeneration(context.Context) error { return nil }

type FeedService interface {
	PublisherFeed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error)
	JournalistFeed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error)
	Feed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error)
}

type feedService struct {
	articleRepo repositories.ArticleRepository
	subRepo     repositories.SubscriptionRepository
	cache       FeedCache
	metrics     metrics.Recorder
	log         *slog.Logger
}

// NewFeedService builds the feed engine. cache may be nil.
func NewFeedService(articleRepo repositories.ArticleRepository, subRepo repositories.SubscriptionRepository, cache FeedCache, rec metrics.Recorder, log *slog.Logger) FeedService {
	if cache == nil {
		cache = noopFeedCache{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &feedService{
		articleRepo: articleRepo,
		subRepo:     subRepo,
		cache:       cache,
		metrics:     rec,
		log:         log,
	}
}

func (s *feedService) PublisherFeed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error) {
	return s.read(ctx, reader, models.FeedPublishers, s.publisherArticles)
}

func (s *feedService) JournalistFeed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error) {
	return s.read(ctx, reader, models.FeedJournalists, s.journalistArticles)
}

func (s *feedService) Feed(ctx context.Context, reader *models.User) ([]models.ArticleResponse, error) {
	return s.read(ctx, reader, models.FeedAll, func(ctx context.Context, userID uint) ([]models.Article, error) {
		byPublisher, err := s.publisherArticles(ctx, userID)
		if err != nil {
			return nil, err
		}
		byJournalist, err := s.journalistArticles(ctx, userID)
		if err != nil {
			return nil, err
		}
		return MergeFeeds(byPublisher, byJournalist), nil
	})
}

func (s *feedService) read(ctx context.Context, reader *models.User, kind models.FeedKind, build func(context.Context, uint) ([]models.Article, error)) ([]models.ArticleResponse, error) {
	if err := Authorize(reader, OpReadFeed); err != nil {
		return nil, err
	}
	s.metrics.RecordFeedRequest(string(kind))

	// version is captured before the build; a failed lookup disables the write.
	items, version, ok, err := s.cache.Get(ctx, kind, reader.ID)
	cacheable := err == nil
	if err != nil {
		s.log.Warn("feed cache read failed", slog.String("kind", string(kind)), helper.Err(err))
	} else if ok {
		return items, nil
	}

	start := time.Now()
	articles, err := build(ctx, reader.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordFeedBuild(time.Since(start))

	items = models.NewArticleResponses(articles)
	if cacheable {
		if err := s.cache.Set(ctx, version, kind, reader.ID, items); err != nil {
			s.log.Warn("feed cache write failed", slog.String("kind", string(kind)), helper.Err(err))
		}
	}
	return items, nil
}

func (s *feedService) publisherArticles(ctx context.Context, userID uint) ([]models.Article, error) {
	ids, err := s.subRepo.PublisherIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.articleRepo.ListApprovedByPublishers(ctx, ids)
}

func (s *feedService) journalistArticles(ctx context.Context, userID uint) ([]models.Article, error) {
	ids, err := s.subRepo.JournalistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.articleRepo.ListApprovedByAuthors(ctx, ids)
}

// MergeFeeds returns the union of feeds with each article id kept once,
// sorted newest first.
func MergeFeeds(feeds ...[]models.Article) []models.Article {
	seen := make(map[uint]bool)
	merged := []models.Article{}
	for _, feed := range feeds {
		for _, a := range feed {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			merged = append(merged, a)
		}
	}
	SortFeed(merged)
	return merged
}

// SortFeed orders articles by created_at descending, then id descending.
func SortFeed(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
}

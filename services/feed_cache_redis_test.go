package services

import (
	"context"
	"testing"
	"time"

	"newsdesk/cache"
	"newsdesk/metrics"
	"newsdesk/models"
	"newsdesk/repositories"
	"newsdesk/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func newRedisFeedCache(t *testing.T) *cache.FeedCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.New(rdb, time.Minute)
}

// interleavedArticles runs during once, right after the first publisher
// query returns, so a write lands between a feed build and its cache write.
type interleavedArticles struct {
	repositories.ArticleRepository
	during func()
}

func (r *interleavedArticles) ListApprovedByPublishers(ctx context.Context, publisherIDs []uint) ([]models.Article, error) {
	articles, err := r.ArticleRepository.ListApprovedByPublishers(ctx, publisherIDs)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return articles, err
}

type FeedCacheRedisSuite struct {
	suite.Suite
	db       *gorm.DB
	cache    *cache.FeedCache
	articles *interleavedArticles

	feeds   FeedService
	subs    SubscriptionService
	reviews ReviewService

	reader    *models.User
	editor    *models.User
	author    *models.User
	publisher *models.Publisher
	article   *models.Article
}

func (s *FeedCacheRedisSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.cache = newRedisFeedCache(s.T())
	s.articles = &interleavedArticles{ArticleRepository: repositories.NewArticleRepository(s.db)}

	subRepo := repositories.NewSubscriptionRepository(s.db)
	s.feeds = NewFeedService(s.articles, subRepo, s.cache, metrics.Nop{}, discardLogger)
	s.subs = NewSubscriptionService(subRepo, repositories.NewPublisherRepository(s.db), repositories.NewUserRepository(s.db), s.cache, metrics.Nop{}, discardLogger)
	s.reviews = NewReviewService(repositories.NewArticleRepository(s.db), subRepo, &mockNotifier{}, &mockAnnouncer{}, s.cache, metrics.Nop{}, discardLogger)

	s.reader = testutil.CreateUser(s.T(), s.db, "reader", models.RoleReader, "")
	s.editor = testutil.CreateUser(s.T(), s.db, "editor", models.RoleEditor, "")
	s.author = testutil.CreateUser(s.T(), s.db, "author", models.RoleJournalist, "")
	s.publisher = testutil.CreatePublisher(s.T(), s.db, "Daily")
	s.article = testutil.CreateArticle(s.T(), s.db, "Scoop", s.publisher, s.author, models.StatusApproved, time.Now().UTC())
	testutil.Subscribe(s.T(), s.db, s.reader, s.publisher)
}

func (s *FeedCacheRedisSuite) feedIDs() []uint {
	items, err := s.feeds.Feed(context.Background(), s.reader)
	s.Require().NoError(err)
	return ids(items)
}

func (s *FeedCacheRedisSuite) reject() {
	_, err := s.reviews.Decide(context.Background(), s.editor, s.article.ID, models.DecideRequest{Action: ActionReject}, testBaseURL)
	s.Require().NoError(err)
}

func (s *FeedCacheRedisSuite) TestToggleRefreshesFeed() {
	s.Equal([]uint{s.article.ID}, s.feedIDs())
	s.Equal([]uint{s.article.ID}, s.feedIDs(), "served from cache")

	_, err := s.subs.TogglePublisher(context.Background(), s.reader, s.publisher.ID)
	s.Require().NoError(err)
	s.Empty(s.feedIDs())

	_, err = s.subs.TogglePublisher(context.Background(), s.reader, s.publisher.ID)
	s.Require().NoError(err)
	s.Equal([]uint{s.article.ID}, s.feedIDs())
}

func (s *FeedCacheRedisSuite) TestDecisionRefreshesFeed() {
	s.Equal([]uint{s.article.ID}, s.feedIDs())

	s.reject()
	s.Empty(s.feedIDs())
}

func (s *FeedCacheRedisSuite) TestDecisionDuringBuildIsNotCached() {
	s.articles.during = s.reject

	s.Equal([]uint{s.article.ID}, s.feedIDs(), "the in-flight build still sees the article")
	s.Empty(s.feedIDs())
}

func (s *FeedCacheRedisSuite) TestUnsubscribeDuringBuildIsNotCached() {
	s.articles.during = func() {
		_, err := s.subs.TogglePublisher(context.Background(), s.reader, s.publisher.ID)
		s.Require().NoError(err)
	}

	s.Equal([]uint{s.article.ID}, s.feedIDs())
	s.Empty(s.feedIDs())
}

func TestFeedCacheRedisSuite(t *testing.T) {
	suite.Run(t, new(FeedCacheRedisSuite))
}

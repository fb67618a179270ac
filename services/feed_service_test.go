package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"newsdesk/metrics"
	"newsdesk/models"
	"newsdesk/repositories"
	"newsdesk/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newFeedService(db *gorm.DB, cache FeedCache) FeedService {
	return NewFeedService(
		repositories.NewArticleRepository(db),
		repositories.NewSubscriptionRepository(db),
		cache,
		metrics.Nop{},
		discardLogger,
	)
}

func ids(items []models.ArticleResponse) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestMergeFeeds_DeduplicatesAndSorts(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a1 := models.Article{ID: 1, CreatedAt: base}
	a2 := models.Article{ID: 2, CreatedAt: base.Add(time.Hour)}
	a3 := models.Article{ID: 3, CreatedAt: base.Add(2 * time.Hour)}

	merged := MergeFeeds([]models.Article{a3, a1}, []models.Article{a2, a1})

	require.Len(t, merged, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMergeFeeds_EmptyInputs(t *testing.T) {
	merged := MergeFeeds(nil, []models.Article{})
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestSortFeed_TiesBreakByIDDescending(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	articles := []models.Article{{ID: 4, CreatedAt: ts}, {ID: 9, CreatedAt: ts}, {ID: 6, CreatedAt: ts}}

	SortFeed(articles)

	assert.Equal(t, uint(9), articles[0].ID)
	assert.Equal(t, uint(6), articles[1].ID)
	assert.Equal(t, uint(4), articles[2].ID)
}

// A reader subscribed to P1 and following J2 sees approved P1 articles and
// approved J2 articles, once each, newest first.
func TestFeed_UnionOfSubscriptionsAndFollows(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	reader := testutil.CreateUser(t, db, "reader", models.RoleReader, "r@example.com")
	j1 := testutil.CreateUser(t, db, "j1", models.RoleJournalist, "")
	j2 := testutil.CreateUser(t, db, "j2", models.RoleJournalist, "")
	p1 := testutil.CreatePublisher(t, db, "P1")
	p2 := testutil.CreatePublisher(t, db, "P2")

	a := testutil.CreateArticle(t, db, "A", p1, j1, models.StatusApproved, base)
	b := testutil.CreateArticle(t, db, "B", p2, j2, models.StatusApproved, base.Add(time.Hour))
	c := testutil.CreateArticle(t, db, "C", p1, j2, models.StatusApproved, base.Add(2*time.Hour))
	testutil.CreateArticle(t, db, "D", p1, j1, models.StatusPending, base.Add(3*time.Hour))
	testutil.CreateArticle(t, db, "E", p2, j2, models.StatusRejected, base.Add(4*time.Hour))

	testutil.Subscribe(t, db, reader, p1)
	testutil.Follow(t, db, reader, j2)

	svc := newFeedService(db, nil)

	feed, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID, b.ID, a.ID}, ids(feed))

	byPublisher, err := svc.PublisherFeed(ctx, reader)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID, a.ID}, ids(byPublisher))

	byJournalist, err := svc.JournalistFeed(ctx, reader)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID, b.ID}, ids(byJournalist))

	assert.Equal(t, "P1", feed[0].PublisherName)
	assert.Equal(t, "j2", feed[0].AuthorUsername)
}

func TestFeed_EmptyRelationsGiveEmptyFeed(t *testing.T) {
	db := testutil.NewDB(t)
	reader := testutil.CreateUser(t, db, "lonely", models.RoleReader, "")
	j := testutil.CreateUser(t, db, "j", models.RoleJournalist, "")
	p := testutil.CreatePublisher(t, db, "P")
	testutil.CreateArticle(t, db, "A", p, j, models.StatusApproved, time.Now().UTC())

	feed, err := newFeedService(db, nil).Feed(context.Background(), reader)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeed_OnlyReadersMayRead(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newFeedService(db, nil)
	ctx := context.Background()

	_, err := svc.Feed(ctx, nil)
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	editor := testutil.CreateUser(t, db, "ed", models.RoleEditor, "")
	_, err = svc.PublisherFeed(ctx, editor)
	assert.IsType(t, models.ErrorForbidden{}, err)

	journalist := testutil.CreateUser(t, db, "jo", models.RoleJournalist, "")
	_, err = svc.JournalistFeed(ctx, journalist)
	assert.IsType(t, models.ErrorForbidden{}, err)
}

type memoryFeedCache struct {
	items map[models.FeedKind][]models.ArticleResponse
	gets  int
	sets  int
}

func (m *memoryFeedCache) Get(_ context.Context, kind models.FeedKind, _ uint) ([]models.ArticleResponse, models.FeedVersion, bool, error) {
	m.gets++
	items, ok := m.items[kind]
	return items, models.FeedVersion{}, ok, nil
}

func (m *memoryFeedCache) Set(_ context.Context, _ models.FeedVersion, kind models.FeedKind, _ uint, items []models.ArticleResponse) error {
	m.sets++
	if m.items == nil {
		m.items = map[models.FeedKind][]models.ArticleResponse{}
	}
	m.items[kind] = items
	return nil
}

func (m *memoryFeedCache) InvalidateUser(context.Context, uint) error {
	m.items = map[models.FeedKind][]models.ArticleResponse{}
	return nil
}

func (m *memoryFeedCache) BumpGeneration(context.Context) error {
	m.items = map[models.FeedKind][]models.ArticleResponse{}
	return nil
}

func TestFeed_ServesFromCacheUntilInvalidated(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader", models.RoleReader, "")
	j := testutil.CreateUser(t, db, "j", models.RoleJournalist, "")
	p := testutil.CreatePublisher(t, db, "P")
	testutil.Subscribe(t, db, reader, p)
	testutil.CreateArticle(t, db, "first", p, j, models.StatusApproved, time.Now().UTC().Add(-time.Hour))

	cache := &memoryFeedCache{items: map[models.FeedKind][]models.ArticleResponse{}}
	svc := newFeedService(db, cache)

	first, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	require.Len(t, first, 1)

	testutil.CreateArticle(t, db, "second", p, j, models.StatusApproved, time.Now().UTC())

	cached, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, cache.BumpGeneration(ctx))
	fresh, err := svc.Feed(ctx, reader)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

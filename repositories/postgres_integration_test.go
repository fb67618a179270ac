//go:build integration

package repositories_test

import (
	"context"
	"testing"
	"time"

	"newsdesk/config"
	"newsdesk/models"
	"newsdesk/repositories"
	"newsdesk/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func newPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("newsdesk_test"),
		postgres.WithUsername("newsdesk"),
		postgres.WithPassword("newsdesk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := config.InitDB(config.DatabaseConfig{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestPostgres_FeedQueriesAndCascade(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()

	articles := repositories.NewArticleRepository(db)
	subs := repositories.NewSubscriptionRepository(db)
	publishers := repositories.NewPublisherRepository(db)

	reader := testutil.CreateUser(t, db, "reader", models.RoleReader, "reader@example.com")
	other := testutil.CreateUser(t, db, "other", models.RoleReader, "")
	jane := testutil.CreateUser(t, db, "jane", models.RoleJournalist, "jane@example.com")
	p1 := testutil.CreatePublisher(t, db, "P1")
	p2 := testutil.CreatePublisher(t, db, "P2")

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := testutil.CreateArticle(t, db, "A", p1, jane, models.StatusApproved, now)
	testutil.CreateArticle(t, db, "B", p2, jane, models.StatusApproved, now.Add(time.Minute))
	testutil.CreateArticle(t, db, "C", p1, jane, models.StatusPending, now.Add(2*time.Minute))

	require.NoError(t, subs.Subscribe(ctx, reader.ID, p1.ID))
	require.NoError(t, subs.Subscribe(ctx, reader.ID, p1.ID), "subscribe is idempotent")
	require.NoError(t, subs.Subscribe(ctx, other.ID, p1.ID))
	require.NoError(t, subs.Follow(ctx, reader.ID, jane.ID))

	byPublisher, err := articles.ListApprovedByPublishers(ctx, []uint{p1.ID})
	require.NoError(t, err)
	require.Len(t, byPublisher, 1)
	assert.Equal(t, a.ID, byPublisher[0].ID)

	byAuthor, err := articles.ListApprovedByAuthors(ctx, []uint{jane.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	assert.Equal(t, "B", byAuthor[0].Title)

	emails, err := subs.SubscriberEmails(ctx, p1.ID, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader@example.com"}, emails)

	require.NoError(t, publishers.Delete(ctx, p1.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Article{}).Where("publisher_id = ?", p1.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	ids, err := subs.PublisherIDs(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

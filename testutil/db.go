// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"newsdesk/config"
	"newsdesk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user created by CreateUser.
const Password = "password123"

// NewDB opens a private in-memory sqlite database with the schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := config.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

var hashedPassword = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func CreateUser(t testing.TB, db *gorm.DB, username string, role models.UserRole, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: hashedPassword, Role: role}
	require.NoError(t, db.Omit("Groups").Create(user).Error)
	return user
}

func CreatePublisher(t testing.TB, db *gorm.DB, name string) *models.Publisher {
	t.Helper()
	p := &models.Publisher{Name: name}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateArticle stores an article with an explicit creation time.
func CreateArticle(t testing.TB, db *gorm.DB, title string, publisher *models.Publisher, author *models.User, status models.ArticleStatus, createdAt time.Time) *models.Article {
	t.Helper()
	a := &models.Article{
		Title:       title,
		Body:        title + " body",
		PublisherID: publisher.ID,
		AuthorID:    author.ID,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Omit("Author", "Publisher").Create(a).Error)
	return a
}

func Subscribe(t testing.TB, db *gorm.DB, user *models.User, publisher *models.Publisher) {
	t.Helper()
	require.NoError(t, db.Create(&models.PublisherSubscription{UserID: user.ID, PublisherID: publisher.ID}).Error)
}

func Follow(t testing.TB, db *gorm.DB, follower, journalist *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.JournalistFollow{FollowerID: follower.ID, JournalistID: journalist.ID}).Error)
}

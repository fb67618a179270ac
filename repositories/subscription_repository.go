package repositories

import (
	"context"

	"newsdesk/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository stores the publisher-subscription and
// journalist-follow relations of users.
type SubscriptionRepository interface {
	PublisherIDs(ctx context.Context, userID uint) ([]uint, error)
	IsSubscribed(ctx context.Context, userID, publisherID uint) (bool, error)
	Subscribe(ctx context.Context, userID, publisherID uint) error
	Unsubscribe(ctx context.Context, userID, publisherID uint) error
	SubscribedPublishers(ctx context.Context, userID uint) ([]models.Publisher, error)
	SubscriberEmails(ctx context.Context, publisherID, excludeUserID uint) ([]string, error)

	JournalistIDs(ctx context.Context, followerID uint) ([]uint, error)
	IsFollowing(ctx context.Context, followerID, journalistID uint) (bool, error)
	Follow(ctx context.Context, followerID, journalistID uint) error
	Unfollow(ctx context.Context, followerID, journalistID uint) error
	FollowedJournalists(ctx context.Context, followerID uint) ([]models.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) PublisherIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.PublisherSubscription{}).
		Where("user_id = ?", userID).
		Pluck("publisher_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, userID, publisherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PublisherSubscription{}).
		Where("user_id = ? AND publisher_id = ?", userID, publisherID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, userID, publisherID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PublisherSubscription{UserID: userID, PublisherID: publisherID}).Error
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, userID, publisherID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND publisher_id = ?", userID, publisherID).
		Delete(&models.PublisherSubscription{}).Error
}

func (r *subscriptionRepository) SubscribedPublishers(ctx context.Context, userID uint) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := r.db.WithContext(ctx).
		Joins("JOIN publisher_subscriptions ON publisher_subscriptions.publisher_id = publishers.id").
		Where("publisher_subscriptions.user_id = ?", userID).
		Order("publishers.name").
		Find(&publishers).Error
	return publishers, err
}

// SubscriberEmails returns the distinct non-empty addresses of users
// subscribed to the publisher, leaving out excludeUserID.
func (r *subscriptionRepository) SubscriberEmails(ctx context.Context, publisherID, excludeUserID uint) ([]string, error) {
	emails := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN publisher_subscriptions ON publisher_subscriptions.user_id = users.id").
		Where("publisher_subscriptions.publisher_id = ?", publisherID).
		Where("users.id <> ?", excludeUserID).
		Where("users.email IS NOT NULL AND users.email <> ''").
		Distinct().
		Order("users.email").
		Pluck("users.email", &emails).Error
	return emails, err
}

func (r *subscriptionRepository) JournalistIDs(ctx context.Context, followerID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.JournalistFollow{}).
		Where("follower_id = ?", followerID).
		Pluck("journalist_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) IsFollowing(ctx context.Context, followerID, journalistID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JournalistFollow{}).
		Where("follower_id = ? AND journalist_id = ?", followerID, journalistID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) Follow(ctx context.Context, followerID, journalistID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.JournalistFollow{FollowerID: followerID, JournalistID: journalistID}).Error
}

func (r *subscriptionRepository) Unfollow(ctx context.Context, followerID, journalistID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND journalist_id = ?", followerID, journalistID).
		Delete(&models.JournalistFollow{}).Error
}

func (r *subscriptionRepository) FollowedJournalists(ctx context.Context, followerID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN journalist_follows ON journalist_follows.journalist_id = users.id").
		Where("journalist_follows.follower_id = ?", followerID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

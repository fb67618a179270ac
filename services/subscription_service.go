package services

import (
	"context"
	"log/slog"

	"newsdesk/helper"
	"newsdesk/metrics"
	"newsdesk/models"
	"newsdesk/repositories"
)

// SubscriptionService manages a user's publisher subscriptions and
// journalist follows. Both relations are toggled: calling a toggle twice
// restores the original state.
type SubscriptionService interface {
	ListPublishers(ctx context.Context, user *models.User) ([]models.PublisherListItem, error)
	TogglePublisher(ctx context.Context, user *models.User, publisherID uint) (*models.ToggleResult, error)
	ListJournalists(ctx context.Context, user *models.User) ([]models.JournalistListItem, error)
	ToggleJournalist(ctx context.Context, user *models.User, journalistID uint) (*models.ToggleResult, error)
	MySubscriptions(ctx context.Context, user *models.User) (*models.SubscriptionsResponse, error)
}

type subscriptionService struct {
	subRepo       repositories.SubscriptionRepository
	publisherRepo repositories.PublisherRepository
	userRepo      repositories.UserRepository
	cache         FeedCache
	metrics       metrics.Recorder
	log           *slog.Logger
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	publisherRepo repositories.PublisherRepository,
	userRepo repositories.UserRepository,
	cache FeedCache,
	rec metrics.Recorder,
	log *slog.Logger,
) SubscriptionService {
	if cache == nil {
		cache = noopFeedCache{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &subscriptionService{
		subRepo:       subRepo,
		publisherRepo: publisherRepo,
		userRepo:      userRepo,
		cache:         cache,
		metrics:       rec,
		log:           log,
	}
}

func (s *subscriptionService) ListPublishers(ctx context.Context, user *models.User) ([]models.PublisherListItem, error) {
	if err := Authorize(user, OpManageSubscriptions); err != nil {
		return nil, err
	}

	publishers, err := s.publisherRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subRepo.PublisherIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	active := idSet(subscribed)

	items := make([]models.PublisherListItem, 0, len(publishers))
	for _, p := range publishers {
		items = append(items, models.PublisherListItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Subscribed:  active[p.ID],
		})
	}
	return items, nil
}

func (s *subscriptionService) TogglePublisher(ctx context.Context, user *models.User, publisherID uint) (*models.ToggleResult, error) {
	if err := Authorize(user, OpManageSubscriptions); err != nil {
		return nil, err
	}

	if _, err := s.publisherRepo.GetByID(ctx, publisherID); err != nil {
		return nil, notFound(err, "publisher not found")
	}

	subscribed, err := s.subRepo.IsSubscribed(ctx, user.ID, publisherID)
	if err != nil {
		return nil, err
	}
	if subscribed {
		err = s.subRepo.Unsubscribe(ctx, user.ID, publisherID)
	} else {
		err = s.subRepo.Subscribe(ctx, user.ID, publisherID)
	}
	if err != nil {
		return nil, err
	}

	s.afterToggle(ctx, user.ID, "publisher", !subscribed)
	return &models.ToggleResult{TargetID: publisherID, Active: !subscribed, Changed: true}, nil
}

func (s *subscriptionService) ListJournalists(ctx context.Context, user *models.User) ([]models.JournalistListItem, error) {
	if err := Authorize(user, OpManageSubscriptions); err != nil {
		return nil, err
	}

	journalists, err := s.userRepo.ListByRole(ctx, models.RoleJournalist)
	if err != nil {
		return nil, err
	}
	followed, err := s.subRepo.JournalistIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	active := idSet(followed)

	items := make([]models.JournalistListItem, 0, len(journalists))
	for _, j := range journalists {
		items = append(items, models.JournalistListItem{
			ID:       j.ID,
			Username: j.Username,
			Bio:      j.Bio,
			Followed: active[j.ID],
		})
	}
	return items, nil
}

// ToggleJournalist flips a follow. Following oneself is silently ignored and
// reported as unchanged.
func (s *subscriptionService) ToggleJournalist(ctx context.Context, user *models.User, journalistID uint) (*models.ToggleResult, error) {
	if err := Authorize(user, OpManageSubscriptions); err != nil {
		return nil, err
	}

	journalist, err := s.userRepo.GetByID(ctx, journalistID)
	if err != nil {
		return nil, notFound(err, "journalist not found")
	}
	if journalist.Role != models.RoleJournalist {
		return nil, models.ErrorNotFound{Message: "journalist not found"}
	}

	following, err := s.subRepo.IsFollowing(ctx, user.ID, journalistID)
	if err != nil {
		return nil, err
	}

	if user.ID == journalistID {
		return &models.ToggleResult{TargetID: journalistID, Active: following, Changed: false}, nil
	}

	if following {
		err = s.subRepo.Unfollow(ctx, user.ID, journalistID)
	} else {
		err = s.subRepo.Follow(ctx, user.ID, journalistID)
	}
	if err != nil {
		return nil, err
	}

	s.afterToggle(ctx, user.ID, "journalist", !following)
	return &models.ToggleResult{TargetID: journalistID, Active: !following, Changed: true}, nil
}

func (s *subscriptionService) MySubscriptions(ctx context.Context, user *models.User) (*models.SubscriptionsResponse, error) {
	if err := Authorize(user, OpManageSubscriptions); err != nil {
		return nil, err
	}

	publishers, err := s.subRepo.SubscribedPublishers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	journalists, err := s.subRepo.FollowedJournalists(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.SubscriptionsResponse{
		Publishers:  publishers,
		Journalists: make([]models.UserSummary, 0, len(journalists)),
	}
	for _, j := range journalists {
		resp.Journalists = append(resp.Journalists, models.NewUserSummary(j))
	}
	return resp, nil
}

func (s *subscriptionService) afterToggle(ctx context.Context, userID uint, relation string, active bool) {
	s.metrics.RecordToggle(relation, active)
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("feed cache invalidation failed", slog.Uint64("user_id", uint64(userID)), helper.Err(err))
	}
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

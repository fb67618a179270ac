package models

import "time"

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateArticleRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Body        string `json:"body" form:"body" validate:"required"`
	PublisherID uint   `json:"publisher" form:"publisher" validate:"required"`
}

type DecideRequest struct {
	Action string `json:"action" form:"action"`
	Reason string `json:"reason" form:"reason" validate:"max=5000"`
}

// ArticleResponse is the read-only shape served by the feed API.
type ArticleResponse struct {
	ID             uint          `json:"id"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	Publisher      uint          `json:"publisher"`
	PublisherName  string        `json:"publisher_name"`
	Author         uint          `json:"author"`
	AuthorUsername string        `json:"author_username"`
	Status         ArticleStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

func NewArticleResponse(a Article) ArticleResponse {
	return ArticleResponse{
		ID:             a.ID,
		Title:          a.Title,
		Body:           a.Body,
		Publisher:      a.PublisherID,
		PublisherName:  a.Publisher.Name,
		Author:         a.AuthorID,
		AuthorUsername: a.Author.Username,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
	}
}

func NewArticleResponses(articles []Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleResponse(a))
	}
	return out
}

type PublisherListItem struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subscribed  bool   `json:"subscribed"`
}

type JournalistListItem struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Followed bool   `json:"followed"`
}

type SubscriptionsResponse struct {
	Publishers  []Publisher   `json:"publishers"`
	Journalists []UserSummary `json:"journalists"`
}

// ToggleResult reports relation membership after a toggle.
type ToggleResult struct {
	TargetID uint `json:"target_id"`
	Active   bool `json:"active"`
	Changed  bool `json:"changed"`
}

type FeedKind string

const (
	FeedAll         FeedKind = "feed"
	FeedPublishers  FeedKind = "publishers"
	FeedJournalists FeedKind = "journalists"
)

// FeedVersion identifies the cache state a feed was built against: the
// global decision generation and the reader's own relation generation.
type FeedVersion struct {
	Global int64
	User   int64
}

type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelInfo    MessageLevel = "info"
	LevelWarning MessageLevel = "warning"
	LevelError   MessageLevel = "error"
)

type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// DecisionResult summarizes an editor decision and its side effects.
type DecisionResult struct {
	Article             *Article  `json:"article"`
	Action              string    `json:"action"`
	Applied             bool      `json:"applied"`
	AuthorNotified      bool      `json:"author_notified"`
	SubscribersNotified int       `json:"subscribers_notified"`
	Posted              bool      `json:"posted"`
	Messages            []Message `json:"messages"`
}

func (r *DecisionResult) AddMessage(level MessageLevel, text string) {
	r.Messages = append(r.Messages, Message{Level: level, Text: text})
}

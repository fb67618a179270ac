package models

import (
	"fmt"
	"strings"
	"time"
)

type ArticleStatus string

const (
	StatusPending  ArticleStatus = "PENDING"
	StatusApproved ArticleStatus = "APPROVED"
	StatusRejected ArticleStatus = "REJECTED"
)

// NoReasonProvided is shown in place of an empty rejection reason.
const NoReasonProvided = "No reason provided."

type Publisher struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"size:150;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Article struct {
	ID             uint          `json:"id" gorm:"primarykey"`
	Title          string        `json:"title" gorm:"size:200;not null"`
	Body           string        `json:"body" gorm:"type:text;not null"`
	PublisherID    uint          `json:"publisher_id" gorm:"not null;index"`
	Publisher      Publisher     `json:"publisher" gorm:"foreignKey:PublisherID;constraint:OnDelete:CASCADE"`
	AuthorID       uint          `json:"author_id" gorm:"not null;index"`
	Author         User          `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Status         ArticleStatus `json:"status" gorm:"size:20;not null;default:'PENDING';index"`
	DecisionReason string        `json:"decision_reason" gorm:"type:text"`
	DecidedAt      *time.Time    `json:"decided_at"`
	CreatedAt      time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// IsPublic reports whether ordinary readers may see the article.
func (a *Article) IsPublic() bool {
	return a.Status == StatusApproved
}

func (a *Article) ReasonOrDefault() string {
	if a.DecisionReason == "" {
		return NoReasonProvided
	}
	return a.DecisionReason
}

// ArticleURL is the public link to an article.
func ArticleURL(baseURL string, id uint) string {
	return fmt.Sprintf("%s/articles/%d/", strings.TrimRight(baseURL, "/"), id)
}

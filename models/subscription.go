package models

import "time"

// PublisherSubscription links a user to a publisher. The composite key keeps
// the relation free of duplicates.
type PublisherSubscription struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false"`
	PublisherID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt   time.Time
}

// JournalistFollow is a directed edge from a follower to a journalist.
type JournalistFollow struct {
	FollowerID   uint      `gorm:"primaryKey;autoIncrement:false"`
	JournalistID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt    time.Time
}

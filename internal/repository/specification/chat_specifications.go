package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByUserID scopes a query to rows owned by one user.
type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// LatestFirst orders by creation time, newest first, with id as tie-break.
type LatestFirst struct{}

func (LatestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// Chronological orders by creation time, oldest first.
type Chronological struct{}

func (Chronological) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

package models

import (
	"time"

	"github.com/lib/pq"
)

// Novelty is a time-bounded announcement shown to users until each user
// dismisses it. Viewed holds the ids of users who already did.
type Novelty struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	StartDate   Date           `db:"start_date" json:"start_date"`
	EndDate     Date           `db:"end_date" json:"end_date"`
	Viewed      pq.StringArray `db:"viewed" json:"viewed"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ViewedBy reports whether the given user already dismissed the novelty.
func (n Novelty) ViewedBy(userID string) bool {
	for _, id := range n.Viewed {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkViewed returns the viewed set with userID added exactly once.
func (n Novelty) MarkViewed(userID string) pq.StringArray {
	if n.ViewedBy(userID) {
		return n.Viewed
	}
	return append(append(pq.StringArray{}, n.Viewed...), userID)
}

// NoveltyFilter narrows down novelties for list queries.
type NoveltyFilter struct {
	ActiveOn *Date
	Page     int
	PageSize int
}

package models

import "time"

// SocialPost is a single discussion post mentioning the ticker.
type SocialPost struct {
	ID          string
	CreatedAt   time.Time
	Title       string
	Score       int
	NumComments int
}

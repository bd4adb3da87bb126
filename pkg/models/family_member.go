package models

import "time"

// FamilyMember is a person on the family tree. Unlike the other child
// records, StoryID is optional: a member may exist independent of any story
// and is then only reachable through the global family-member listing.
type FamilyMember struct {
	ID           int64     `json:"id"`
	StoryID      *int64    `json:"story_id"`
	Name         string    `json:"name"`
	Relationship *string   `json:"relationship"`
	BirthYear    *int      `json:"birth_year"`
	DeathYear    *int      `json:"death_year"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

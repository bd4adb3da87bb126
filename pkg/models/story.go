package models

import (
	"encoding/json"
	"time"
)

// UnknownPersonName is the terminal fallback for the person-name resolution
// chain: explicit input, then extracted person_info.name, then this.
const UnknownPersonName = "Unknown"

// Story is the root record of one archived life story. It owns every child
// record; deleting a story cascades to all of them.
type Story struct {
	ID         int64   `json:"id"`
	PersonName string  `json:"person_name"`
	RawBody    string  `json:"raw_body"`
	Narrative  string  `json:"story"`
	Summary    *string `json:"summary"`
	// ExtractedData is the verbatim extraction document the child rows were
	// derived from. Kept for audit/replay, never re-validated against the rows.
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Person holds the storyteller's basic details. At most one per story.
type Person struct {
	ID         int64   `json:"id"`
	StoryID    int64   `json:"story_id"`
	Name       *string `json:"name"`
	BirthYear  *int    `json:"birth_year"`
	BirthPlace *string `json:"birth_place"`
	DeathYear  *int    `json:"death_year"`
}

// TimelineEvent is one dated (or undated) event on a story's timeline.
type TimelineEvent struct {
	ID          int64     `json:"id"`
	StoryID     int64     `json:"story_id"`
	Year        *int      `json:"year"`
	Event       string    `json:"event"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is a place the storyteller lived or spent significant time.
type Location struct {
	ID        int64     `json:"id"`
	StoryID   int64     `json:"story_id"`
	Place     string    `json:"place"`
	StartYear *int      `json:"start_year"`
	EndYear   *int      `json:"end_year"`
	Purpose   *string   `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
}

// Occupation is one entry in the storyteller's work history.
type Occupation struct {
	ID        int64     `json:"id"`
	StoryID   int64     `json:"story_id"`
	Role      string    `json:"role"`
	StartYear *int      `json:"start_year"`
	EndYear   *int      `json:"end_year"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// Theme is a shared vocabulary term used to tag stories for discovery.
// Names are unique across the whole archive; themes are never owned by a
// single story and never deleted when a story is.
type Theme struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StoryDetail is the fully reassembled nested story: root fields plus every
// child collection. Collections are always non-nil; a story with no timeline
// events carries an empty slice, not null.
type StoryDetail struct {
	Story
	Person         *Person          `json:"person,omitempty"`
	TimelineEvents []*TimelineEvent `json:"timeline_events"`
	FamilyMembers  []*FamilyMember  `json:"family_members"`
	Locations      []*Location      `json:"locations"`
	Occupations    []*Occupation    `json:"occupations"`
	Themes         []*Theme         `json:"themes"`
}

// StorySummary is the lightweight read shape: root fields only, no child
// joins. Used where full reconstruction is unnecessary.
type StorySummary struct {
	ID         int64     `json:"id"`
	PersonName string    `json:"person_name"`
	Narrative  string    `json:"story"`
	RawBody    string    `json:"raw_body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StoryListing is one row of the story library: root fields plus the
// character count of the raw transcript.
type StoryListing struct {
	ID         int64     `json:"id"`
	PersonName string    `json:"person_name"`
	Summary    *string   `json:"summary"`
	RawLength  int       `json:"raw_length"`
	CreatedAt  time.Time `json:"created_at"`
}

// PersonListing is one row of the people overview: a story with its timeline
// event count.
type PersonListing struct {
	StoryID    int64     `json:"story_id"`
	PersonName string    `json:"person_name"`
	EventCount int       `json:"event_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

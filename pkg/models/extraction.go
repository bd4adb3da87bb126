package models

import "strings"

// ExtractionDocument is the structured, partially populated record produced
// upstream from a raw transcript. Every section is optional and independently
// absent; Normalize defaults them so the write path always iterates possibly
// empty sequences instead of branching on missing versus empty.
type ExtractionDocument struct {
	Summary        *string            `json:"summary"`
	PersonInfo     *PersonInfo        `json:"person_info"`
	TimelineEvents []TimelineEntry    `json:"timeline_events"`
	FamilyMembers  []FamilyEntry      `json:"family_members"`
	Locations      []LocationEntry    `json:"locations"`
	Occupations    []OccupationEntry  `json:"occupations"`
	Themes         []string           `json:"themes"`
}

// PersonInfo holds the extracted details about the storyteller. All fields
// are nullable; an all-null PersonInfo is treated as absent.
type PersonInfo struct {
	Name       *string `json:"name"`
	BirthYear  *int    `json:"birth_year"`
	BirthPlace *string `json:"birth_place"`
	DeathYear  *int    `json:"death_year"`
}

// TimelineEntry is one extracted timeline event. Input order is preserved at
// write time; it becomes the creation-order tiebreaker on reads.
type TimelineEntry struct {
	Year        *int    `json:"year"`
	Event       string  `json:"event"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
}

// FamilyEntry is one extracted family member.
type FamilyEntry struct {
	Name         string  `json:"name"`
	Relationship *string `json:"relationship"`
	BirthYear    *int    `json:"birth_year"`
	DeathYear    *int    `json:"death_year"`
	Notes        *string `json:"notes"`
}

// LocationEntry is one extracted residence or significant place.
type LocationEntry struct {
	Place     string  `json:"place"`
	StartYear *int    `json:"start_year"`
	EndYear   *int    `json:"end_year"`
	Purpose   *string `json:"purpose"`
}

// OccupationEntry is one extracted work-history entry.
type OccupationEntry struct {
	Role      string  `json:"role"`
	StartYear *int    `json:"start_year"`
	EndYear   *int    `json:"end_year"`
	Location  *string `json:"location"`
}

// IsEmpty reports whether no field of the person info is populated.
func (p *PersonInfo) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == nil && p.BirthYear == nil && p.BirthPlace == nil && p.DeathYear == nil
}

// Normalize replaces nil sections with empty ones and drops blank theme
// names, so callers never distinguish a missing section from an empty one.
func (d *ExtractionDocument) Normalize() {
	if d.PersonInfo.IsEmpty() {
		d.PersonInfo = nil
	}
	if d.TimelineEvents == nil {
		d.TimelineEvents = []TimelineEntry{}
	}
	if d.FamilyMembers == nil {
		d.FamilyMembers = []FamilyEntry{}
	}
	if d.Locations == nil {
		d.Locations = []LocationEntry{}
	}
	if d.Occupations == nil {
		d.Occupations = []OccupationEntry{}
	}

	themes := make([]string, 0, len(d.Themes))
	for _, name := range d.Themes {
		if strings.TrimSpace(name) == "" {
			continue
		}
		themes = append(themes, name)
	}
	d.Themes = themes
}

// ResolvePersonName applies the fallback chain for the story's person name:
// explicit input, then the extracted person name, then "Unknown".
func (d *ExtractionDocument) ResolvePersonName(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if d != nil && d.PersonInfo != nil && d.PersonInfo.Name != nil && strings.TrimSpace(*d.PersonInfo.Name) != "" {
		return *d.PersonInfo.Name
	}
	return UnknownPersonName
}

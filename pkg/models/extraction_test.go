package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNormalize_NilSections(t *testing.T) {
	doc := &ExtractionDocument{}
	doc.Normalize()

	assert.Nil(t, doc.PersonInfo)
	assert.NotNil(t, doc.TimelineEvents)
	assert.NotNil(t, doc.FamilyMembers)
	assert.NotNil(t, doc.Locations)
	assert.NotNil(t, doc.Occupations)
	assert.NotNil(t, doc.Themes)
	assert.Empty(t, doc.TimelineEvents)
	assert.Empty(t, doc.Themes)
}

func TestNormalize_DropsBlankThemes(t *testing.T) {
	doc := &ExtractionDocument{
		Themes: []string{"Partition", "", "   ", "Migration"},
	}
	doc.Normalize()

	assert.Equal(t, []string{"Partition", "Migration"}, doc.Themes)
}

func TestNormalize_EmptyPersonInfoTreatedAsAbsent(t *testing.T) {
	doc := &ExtractionDocument{PersonInfo: &PersonInfo{}}
	doc.Normalize()
	assert.Nil(t, doc.PersonInfo)

	doc = &ExtractionDocument{PersonInfo: &PersonInfo{BirthYear: intPtr(1945)}}
	doc.Normalize()
	require.NotNil(t, doc.PersonInfo)
	assert.Equal(t, 1945, *doc.PersonInfo.BirthYear)
}

func TestNormalize_PreservesEntryOrder(t *testing.T) {
	doc := &ExtractionDocument{
		TimelineEvents: []TimelineEntry{
			{Year: intPtr(1990), Event: "Moved to the city"},
			{Year: nil, Event: "Learned weaving"},
			{Year: intPtr(1975), Event: "Started school"},
		},
	}
	doc.Normalize()

	require.Len(t, doc.TimelineEvents, 3)
	assert.Equal(t, "Moved to the city", doc.TimelineEvents[0].Event)
	assert.Equal(t, "Learned weaving", doc.TimelineEvents[1].Event)
	assert.Equal(t, "Started school", doc.TimelineEvents[2].Event)
}

func TestResolvePersonName(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		doc      *ExtractionDocument
		want     string
	}{
		{
			name:     "explicit name wins",
			explicit: "Amar Singh",
			doc:      &ExtractionDocument{PersonInfo: &PersonInfo{Name: strPtr("Someone Else")}},
			want:     "Amar Singh",
		},
		{
			name:     "falls back to extracted name",
			explicit: "",
			doc:      &ExtractionDocument{PersonInfo: &PersonInfo{Name: strPtr("Harbans Kaur")}},
			want:     "Harbans Kaur",
		},
		{
			name:     "whitespace explicit is empty",
			explicit: "   ",
			doc:      &ExtractionDocument{PersonInfo: &PersonInfo{Name: strPtr("Harbans Kaur")}},
			want:     "Harbans Kaur",
		},
		{
			name:     "blank extracted name skipped",
			explicit: "",
			doc:      &ExtractionDocument{PersonInfo: &PersonInfo{Name: strPtr("  ")}},
			want:     UnknownPersonName,
		},
		{
			name:     "no name anywhere",
			explicit: "",
			doc:      &ExtractionDocument{},
			want:     UnknownPersonName,
		},
		{
			name:     "nil document",
			explicit: "",
			doc:      nil,
			want:     UnknownPersonName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.ResolvePersonName(tt.explicit))
		})
	}
}

func TestExtractionDocument_UnmarshalPartial(t *testing.T) {
	// The extractor routinely omits whole sections; missing keys must not
	// break parsing.
	raw := `{
		"summary": "A life across two countries.",
		"person_info": {"name": "Amar Singh", "birth_year": 1945},
		"themes": ["Partition", "Migration"]
	}`

	var doc ExtractionDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	doc.Normalize()

	require.NotNil(t, doc.Summary)
	assert.Equal(t, "A life across two countries.", *doc.Summary)
	require.NotNil(t, doc.PersonInfo)
	assert.Equal(t, "Amar Singh", *doc.PersonInfo.Name)
	assert.Empty(t, doc.TimelineEvents)
	assert.Equal(t, []string{"Partition", "Migration"}, doc.Themes)
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/virsa-ai/virsa-engine/pkg/database"
	"github.com/virsa-ai/virsa-engine/pkg/models"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// StoryUpdate holds the optional fields of a partial story update. Nil fields
// are left untouched.
type StoryUpdate struct {
	PersonName *string
	RawBody    *string
	Narrative  *string
	Summary    *string
}

// StoryRepository provides data access for story roots and the child tables
// they exclusively own (person, timeline_events, locations, occupations).
// Every method runs against the caller-supplied Querier; the atomic fan-out
// in StoryService passes a transaction, reads pass the pool directly.
type StoryRepository interface {
	Insert(ctx context.Context, q database.Querier, story *models.Story) error
	InsertPerson(ctx context.Context, q database.Querier, person *models.Person) error
	InsertTimelineEvent(ctx context.Context, q database.Querier, event *models.TimelineEvent) error
	InsertLocation(ctx context.Context, q database.Querier, location *models.Location) error
	InsertOccupation(ctx context.Context, q database.Querier, occupation *models.Occupation) error

	GetByID(ctx context.Context, q database.Querier, id int64) (*models.Story, error)
	GetSummary(ctx context.Context, q database.Querier, id int64) (*models.StorySummary, error)
	GetPerson(ctx context.Context, q database.Querier, storyID int64) (*models.Person, error)
	ListTimelineEvents(ctx context.Context, q database.Querier, storyID int64) ([]*models.TimelineEvent, error)
	ListLocations(ctx context.Context, q database.Querier, storyID int64) ([]*models.Location, error)
	ListOccupations(ctx context.Context, q database.Querier, storyID int64) ([]*models.Occupation, error)

	List(ctx context.Context, q database.Querier, limit int) ([]*models.StoryListing, error)
	ListByTheme(ctx context.Context, q database.Querier, themeName string, limit int) ([]*models.StoryListing, error)
	ListPeople(ctx context.Context, q database.Querier) ([]*models.PersonListing, error)

	Update(ctx context.Context, q database.Querier, id int64, fields StoryUpdate) (bool, error)
	Delete(ctx context.Context, q database.Querier, id int64) (bool, error)
}

type storyRepository struct{}

// NewStoryRepository creates a new StoryRepository.
func NewStoryRepository() StoryRepository {
	return &storyRepository{}
}

var _ StoryRepository = (*storyRepository)(nil)

// ============================================================================
// Writes
// ============================================================================

func (r *storyRepository) Insert(ctx context.Context, q database.Querier, story *models.Story) error {
	query := `
		INSERT INTO stories (person_name, raw_body, story, summary, extracted_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	var extracted any
	if len(story.ExtractedData) > 0 {
		extracted = []byte(story.ExtractedData)
	}

	err := q.QueryRow(ctx, query,
		story.PersonName,
		story.RawBody,
		story.Narrative,
		story.Summary,
		extracted,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}

	return nil
}

func (r *storyRepository) InsertPerson(ctx context.Context, q database.Querier, person *models.Person) error {
	query := `
		INSERT INTO person (story_id, name, birth_year, birth_place, death_year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		person.StoryID,
		person.Name,
		person.BirthYear,
		person.BirthPlace,
		person.DeathYear,
	).Scan(&person.ID)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}

	return nil
}

func (r *storyRepository) InsertTimelineEvent(ctx context.Context, q database.Querier, event *models.TimelineEvent) error {
	query := `
		INSERT INTO timeline_events (story_id, year, event, description, location, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		event.StoryID,
		event.Year,
		event.Event,
		event.Description,
		event.Location,
		event.Category,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}

	return nil
}

func (r *storyRepository) InsertLocation(ctx context.Context, q database.Querier, location *models.Location) error {
	query := `
		INSERT INTO locations (story_id, place, start_year, end_year, purpose)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		location.StoryID,
		location.Place,
		location.StartYear,
		location.EndYear,
		location.Purpose,
	).Scan(&location.ID, &location.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}

	return nil
}

func (r *storyRepository) InsertOccupation(ctx context.Context, q database.Querier, occupation *models.Occupation) error {
	query := `
		INSERT INTO occupations (story_id, role, start_year, end_year, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		occupation.StoryID,
		occupation.Role,
		occupation.StartYear,
		occupation.EndYear,
		occupation.Location,
	).Scan(&occupation.ID, &occupation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert occupation: %w", err)
	}

	return nil
}

// ============================================================================
// Reads
// ============================================================================

func (r *storyRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*models.Story, error) {
	query := `
		SELECT id, person_name, raw_body, story, summary, extracted_data, created_at, updated_at
		FROM stories
		WHERE id = $1`

	var s models.Story
	var extracted []byte
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.PersonName,
		&s.RawBody,
		&s.Narrative,
		&s.Summary,
		&extracted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Story not found
		}
		return nil, fmt.Errorf("failed to query story: %w", err)
	}

	s.ExtractedData = extracted
	return &s, nil
}

func (r *storyRepository) GetSummary(ctx context.Context, q database.Querier, id int64) (*models.StorySummary, error) {
	query := `
		SELECT id, person_name, story, raw_body, created_at, updated_at
		FROM stories
		WHERE id = $1`

	var s models.StorySummary
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.PersonName,
		&s.Narrative,
		&s.RawBody,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Story not found
		}
		return nil, fmt.Errorf("failed to query story summary: %w", err)
	}

	if s.PersonName == "" {
		s.PersonName = models.UnknownPersonName
	}
	return &s, nil
}

func (r *storyRepository) GetPerson(ctx context.Context, q database.Querier, storyID int64) (*models.Person, error) {
	query := `
		SELECT id, story_id, name, birth_year, birth_place, death_year
		FROM person
		WHERE story_id = $1`

	var p models.Person
	err := q.QueryRow(ctx, query, storyID).Scan(
		&p.ID,
		&p.StoryID,
		&p.Name,
		&p.BirthYear,
		&p.BirthPlace,
		&p.DeathYear,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No person row extracted for this story
		}
		return nil, fmt.Errorf("failed to query person: %w", err)
	}

	return &p, nil
}

func (r *storyRepository) ListTimelineEvents(ctx context.Context, q database.Querier, storyID int64) ([]*models.TimelineEvent, error) {
	// Year ascending with undated events last, insertion order as tiebreaker.
	query := `
		SELECT id, story_id, year, event, description, location, category, created_at
		FROM timeline_events
		WHERE story_id = $1
		ORDER BY year NULLS LAST, created_at, id`

	rows, err := q.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline events: %w", err)
	}
	defer rows.Close()

	events := []*models.TimelineEvent{}
	for rows.Next() {
		var e models.TimelineEvent
		err := rows.Scan(&e.ID, &e.StoryID, &e.Year, &e.Event, &e.Description, &e.Location, &e.Category, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline events: %w", err)
	}

	return events, nil
}

func (r *storyRepository) ListLocations(ctx context.Context, q database.Querier, storyID int64) ([]*models.Location, error) {
	query := `
		SELECT id, story_id, place, start_year, end_year, purpose, created_at
		FROM locations
		WHERE story_id = $1
		ORDER BY start_year NULLS LAST, id`

	rows, err := q.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []*models.Location{}
	for rows.Next() {
		var l models.Location
		err := rows.Scan(&l.ID, &l.StoryID, &l.Place, &l.StartYear, &l.EndYear, &l.Purpose, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

func (r *storyRepository) ListOccupations(ctx context.Context, q database.Querier, storyID int64) ([]*models.Occupation, error) {
	query := `
		SELECT id, story_id, role, start_year, end_year, location, created_at
		FROM occupations
		WHERE story_id = $1
		ORDER BY start_year NULLS LAST, id`

	rows, err := q.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupations: %w", err)
	}
	defer rows.Close()

	occupations := []*models.Occupation{}
	for rows.Next() {
		var o models.Occupation
		err := rows.Scan(&o.ID, &o.StoryID, &o.Role, &o.StartYear, &o.EndYear, &o.Location, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan occupation: %w", err)
		}
		occupations = append(occupations, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating occupations: %w", err)
	}

	return occupations, nil
}

// ============================================================================
// Listings
// ============================================================================

func (r *storyRepository) List(ctx context.Context, q database.Querier, limit int) ([]*models.StoryListing, error) {
	query := `
		SELECT id, person_name, summary, char_length(raw_body), created_at
		FROM stories
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	return collectStoryListings(rows)
}

func (r *storyRepository) ListByTheme(ctx context.Context, q database.Querier, themeName string, limit int) ([]*models.StoryListing, error) {
	query := `
		SELECT DISTINCT s.id, s.person_name, s.summary, char_length(s.raw_body), s.created_at
		FROM stories s
		JOIN story_themes st ON s.id = st.story_id
		JOIN themes t ON st.theme_id = t.id
		WHERE t.name = $1
		ORDER BY s.created_at DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, themeName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories by theme: %w", err)
	}
	defer rows.Close()

	return collectStoryListings(rows)
}

func (r *storyRepository) ListPeople(ctx context.Context, q database.Querier) ([]*models.PersonListing, error) {
	query := `
		SELECT s.id, s.person_name, COUNT(te.id), s.updated_at
		FROM stories s
		LEFT JOIN timeline_events te ON te.story_id = s.id
		GROUP BY s.id, s.person_name, s.updated_at
		ORDER BY s.updated_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	people := []*models.PersonListing{}
	for rows.Next() {
		var p models.PersonListing
		if err := rows.Scan(&p.StoryID, &p.PersonName, &p.EventCount, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person listing: %w", err)
		}
		if p.PersonName == "" {
			p.PersonName = models.UnknownPersonName
		}
		people = append(people, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}

	return people, nil
}

// ============================================================================
// Mutations
// ============================================================================

func (r *storyRepository) Update(ctx context.Context, q database.Querier, id int64, fields StoryUpdate) (bool, error) {
	builder := psql.Update("stories")
	changed := 0

	if fields.PersonName != nil {
		builder = builder.Set("person_name", *fields.PersonName)
		changed++
	}
	if fields.RawBody != nil {
		builder = builder.Set("raw_body", *fields.RawBody)
		changed++
	}
	if fields.Narrative != nil {
		builder = builder.Set("story", *fields.Narrative)
		changed++
	}
	if fields.Summary != nil {
		builder = builder.Set("summary", *fields.Summary)
		changed++
	}

	// Nothing to update is a reported no-op, not an error, and must leave
	// updated_at untouched.
	if changed == 0 {
		return false, nil
	}

	sqlStr, args, err := builder.
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build story update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update story: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *storyRepository) Delete(ctx context.Context, q database.Querier, id int64) (bool, error) {
	// Child rows go with the story via ON DELETE CASCADE; themes themselves
	// are global vocabulary and survive.
	tag, err := q.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete story: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func collectStoryListings(rows pgx.Rows) ([]*models.StoryListing, error) {
	listings := []*models.StoryListing{}
	for rows.Next() {
		var l models.StoryListing
		if err := rows.Scan(&l.ID, &l.PersonName, &l.Summary, &l.RawLength, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story listing: %w", err)
		}
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return listings, nil
}

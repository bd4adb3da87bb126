package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/virsa-ai/virsa-engine/pkg/database"
	"github.com/virsa-ai/virsa-engine/pkg/models"
)

// ThemeRepository provides data access for the shared theme vocabulary.
// Themes are global: names are unique across the archive and a theme is never
// deleted when a story that links to it is.
type ThemeRepository interface {
	// Ensure returns the id of the theme with this exact name, creating it if
	// absent. A concurrent writer may win the creation race; the resulting
	// unique violation aborts the caller's transaction and is surfaced as-is
	// (the caller retries the whole write once, see StoryService).
	Ensure(ctx context.Context, q database.Querier, name string) (int64, error)
	// LinkToStory associates a theme with a story. Linking an already-linked
	// pair is a silent no-op.
	LinkToStory(ctx context.Context, q database.Querier, storyID, themeID int64) error
	GetByName(ctx context.Context, q database.Querier, name string) (*models.Theme, error)
	ListByStory(ctx context.Context, q database.Querier, storyID int64) ([]*models.Theme, error)
}

type themeRepository struct{}

// NewThemeRepository creates a new ThemeRepository.
func NewThemeRepository() ThemeRepository {
	return &themeRepository{}
}

var _ ThemeRepository = (*themeRepository)(nil)

func (r *themeRepository) Ensure(ctx context.Context, q database.Querier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM themes WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up theme: %w", err)
	}

	err = q.QueryRow(ctx, `INSERT INTO themes (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create theme: %w", err)
	}

	return id, nil
}

func (r *themeRepository) LinkToStory(ctx context.Context, q database.Querier, storyID, themeID int64) error {
	query := `
		INSERT INTO story_themes (story_id, theme_id)
		VALUES ($1, $2)
		ON CONFLICT (story_id, theme_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, storyID, themeID); err != nil {
		return fmt.Errorf("failed to link theme to story: %w", err)
	}

	return nil
}

func (r *themeRepository) GetByName(ctx context.Context, q database.Querier, name string) (*models.Theme, error) {
	var t models.Theme
	err := q.QueryRow(ctx, `SELECT id, name FROM themes WHERE name = $1`, name).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Theme not found
		}
		return nil, fmt.Errorf("failed to query theme: %w", err)
	}

	return &t, nil
}

func (r *themeRepository) ListByStory(ctx context.Context, q database.Querier, storyID int64) ([]*models.Theme, error) {
	query := `
		SELECT t.id, t.name
		FROM themes t
		JOIN story_themes st ON t.id = st.theme_id
		WHERE st.story_id = $1
		ORDER BY t.name`

	rows, err := q.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query story themes: %w", err)
	}
	defer rows.Close()

	themes := []*models.Theme{}
	for rows.Next() {
		var t models.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating themes: %w", err)
	}

	return themes, nil
}

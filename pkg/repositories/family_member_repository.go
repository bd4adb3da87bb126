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

// FamilyMemberUpdate holds the optional fields of a partial family member
// update. Nil fields are left untouched.
type FamilyMemberUpdate struct {
	Name         *string
	Relationship *string
	BirthYear    *int
	DeathYear    *int
	Notes        *string
}

// FamilyMemberRepository provides data access for family tree members.
// Members scoped to a story are deleted with it; unattached members
// (StoryID nil) live independently on the global family tree.
type FamilyMemberRepository interface {
	Create(ctx context.Context, q database.Querier, member *models.FamilyMember) error
	GetByID(ctx context.Context, q database.Querier, id int64) (*models.FamilyMember, error)
	List(ctx context.Context, q database.Querier) ([]*models.FamilyMember, error)
	ListByStory(ctx context.Context, q database.Querier, storyID int64) ([]*models.FamilyMember, error)
	Update(ctx context.Context, q database.Querier, id int64, fields FamilyMemberUpdate) (bool, error)
	Delete(ctx context.Context, q database.Querier, id int64) (bool, error)
}

type familyMemberRepository struct{}

// NewFamilyMemberRepository creates a new FamilyMemberRepository.
func NewFamilyMemberRepository() FamilyMemberRepository {
	return &familyMemberRepository{}
}

var _ FamilyMemberRepository = (*familyMemberRepository)(nil)

func (r *familyMemberRepository) Create(ctx context.Context, q database.Querier, member *models.FamilyMember) error {
	query := `
		INSERT INTO family_members (story_id, name, relationship, birth_year, death_year, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		member.StoryID,
		member.Name,
		member.Relationship,
		member.BirthYear,
		member.DeathYear,
		member.Notes,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create family member: %w", err)
	}

	return nil
}

func (r *familyMemberRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*models.FamilyMember, error) {
	query := familyMemberColumns + ` WHERE id = $1`

	member, err := scanFamilyMember(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Member not found
		}
		return nil, err
	}

	return member, nil
}

func (r *familyMemberRepository) List(ctx context.Context, q database.Querier) ([]*models.FamilyMember, error) {
	query := familyMemberColumns + ` ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	return collectFamilyMembers(rows)
}

func (r *familyMemberRepository) ListByStory(ctx context.Context, q database.Querier, storyID int64) ([]*models.FamilyMember, error) {
	query := familyMemberColumns + ` WHERE story_id = $1 ORDER BY id`

	rows, err := q.Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query story family members: %w", err)
	}
	defer rows.Close()

	return collectFamilyMembers(rows)
}

func (r *familyMemberRepository) Update(ctx context.Context, q database.Querier, id int64, fields FamilyMemberUpdate) (bool, error) {
	builder := psql.Update("family_members")
	changed := 0

	if fields.Name != nil {
		builder = builder.Set("name", *fields.Name)
		changed++
	}
	if fields.Relationship != nil {
		builder = builder.Set("relationship", *fields.Relationship)
		changed++
	}
	if fields.BirthYear != nil {
		builder = builder.Set("birth_year", *fields.BirthYear)
		changed++
	}
	if fields.DeathYear != nil {
		builder = builder.Set("death_year", *fields.DeathYear)
		changed++
	}
	if fields.Notes != nil {
		builder = builder.Set("notes", *fields.Notes)
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
		return false, fmt.Errorf("failed to build family member update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update family member: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *familyMemberRepository) Delete(ctx context.Context, q database.Querier, id int64) (bool, error) {
	tag, err := q.Exec(ctx, `DELETE FROM family_members WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete family member: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

const familyMemberColumns = `
	SELECT id, story_id, name, relationship, birth_year, death_year, notes, created_at, updated_at
	FROM family_members`

func scanFamilyMember(row pgx.Row) (*models.FamilyMember, error) {
	var m models.FamilyMember
	err := row.Scan(
		&m.ID,
		&m.StoryID,
		&m.Name,
		&m.Relationship,
		&m.BirthYear,
		&m.DeathYear,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan family member: %w", err)
	}

	return &m, nil
}

func collectFamilyMembers(rows pgx.Rows) ([]*models.FamilyMember, error) {
	members := []*models.FamilyMember{}
	for rows.Next() {
		m, err := scanFamilyMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}

	return members, nil
}

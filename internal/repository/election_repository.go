package repository

import (
	"context"
	"fmt"

	"evote-api/internal/domain"
	"evote-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type ElectionRepository struct {
	db *database.PostgresDB
}

func NewElectionRepository(db *database.PostgresDB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

// GetElectionByID gets an election by ID, nil when it does not exist
func (r *ElectionRepository) GetElectionByID(ctx context.Context, id int) (*domain.Election, error) {
	var election domain.Election
	query := `
		SELECT id, title, description, campaign_start, campaign_end,
		       start_date, end_date, voter_restriction, status, is_official,
		       created_at, updated_at
		FROM elections
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&election.ID,
		&election.Title,
		&election.Description,
		&election.CampaignStart,
		&election.CampaignEnd,
		&election.StartDate,
		&election.EndDate,
		&election.Restriction,
		&election.Status,
		&election.IsOfficial,
		&election.CreatedAt,
		&election.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}

	return &election, nil
}

// ListElections lists all elections, newest voting window first
func (r *ElectionRepository) ListElections(ctx context.Context) ([]domain.Election, error) {
	query := `
		SELECT id, title, description, campaign_start, campaign_end,
		       start_date, end_date, voter_restriction, status, is_official,
		       created_at, updated_at
		FROM elections
		ORDER BY start_date DESC, id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []domain.Election
	for rows.Next() {
		var election domain.Election
		err := rows.Scan(
			&election.ID,
			&election.Title,
			&election.Description,
			&election.CampaignStart,
			&election.CampaignEnd,
			&election.StartDate,
			&election.EndDate,
			&election.Restriction,
			&election.Status,
			&election.IsOfficial,
			&election.CreatedAt,
			&election.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, election)
	}

	return elections, nil
}

// GetPositionsByElection gets all positions belonging to an election
func (r *ElectionRepository) GetPositionsByElection(ctx context.Context, electionID int) ([]domain.Position, error) {
	query := `
		SELECT id, election_id, title, winner_count
		FROM positions
		WHERE election_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var position domain.Position
		if err := rows.Scan(&position.ID, &position.ElectionID, &position.Title, &position.WinnerCount); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}

	return positions, nil
}

// GetCandidatesByElection gets the approved, active candidates across all
// positions of an election, with display names joined from users
func (r *ElectionRepository) GetCandidatesByElection(ctx context.Context, electionID int) ([]domain.Candidate, error) {
	query := `
		SELECT c.id, c.user_id, c.position_id, c.election_id,
		       u.name, COALESCE(c.image_url, ''), c.status, c.is_active
		FROM candidates c
		JOIN users u ON u.id = c.user_id
		WHERE c.election_id = $1 AND c.status = 'APPROVED' AND c.is_active = true
		ORDER BY c.position_id, c.id
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var candidate domain.Candidate
		err := rows.Scan(
			&candidate.ID,
			&candidate.UserID,
			&candidate.PositionID,
			&candidate.ElectionID,
			&candidate.Name,
			&candidate.ImageURL,
			&candidate.Status,
			&candidate.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// UpdateElectionStatus rewrites a stale stored status. Freshness correction
// only, no business data changes.
func (r *ElectionRepository) UpdateElectionStatus(ctx context.Context, id int, status domain.ElectionStatus) error {
	query := `UPDATE elections SET status = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to update election status: %w", err)
	}
	return nil
}

// MarkOfficial certifies the election: official flag set, status COMPLETED
func (r *ElectionRepository) MarkOfficial(ctx context.Context, id int) error {
	query := `
		UPDATE elections
		SET is_official = true, status = 'COMPLETED', updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark election official: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

// CountEligibleVoters counts users satisfying the election's restriction
func (r *ElectionRepository) CountEligibleVoters(ctx context.Context, restriction domain.VoterRestriction) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	args := []interface{}{}

	switch restriction {
	case domain.RestrictionAll:
		// no filter
	case domain.RestrictionStudents:
		query += ` WHERE user_type = $1`
		args = append(args, domain.UserTypeStudent)
	case domain.RestrictionFaculty:
		query += ` WHERE user_type = $1`
		args = append(args, domain.UserTypeFaculty)
	case domain.RestrictionNonTeaching:
		query += ` WHERE user_type = $1`
		args = append(args, domain.UserTypeNonTeaching)
	case domain.RestrictionStudentsFaculty:
		query += ` WHERE user_type = $1 OR user_type = $2`
		args = append(args, domain.UserTypeStudent, domain.UserTypeFaculty)
	default:
		return 0, fmt.Errorf("unknown voter restriction: %s", restriction)
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count eligible voters: %w", err)
	}

	return count, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"evote-api/internal/domain"
	"evote-api/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type BallotRepository struct {
	db *database.PostgresDB
}

func NewBallotRepository(db *database.PostgresDB) *BallotRepository {
	return &BallotRepository{db: db}
}

// CreateBallot persists a ballot with its votes and abstentions atomically.
// The ballots table carries UNIQUE(voter_id, election_id), so a concurrent
// duplicate submission loses the race inside Postgres, not in application
// code; that violation surfaces as domain.ErrAlreadyVoted.
func (r *BallotRepository) CreateBallot(ctx context.Context, ballot *domain.Ballot, votes []domain.Vote, abstentions []domain.Abstention) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ballotQuery := `
		INSERT INTO ballots (id, voter_id, election_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err = tx.QueryRow(ctx, ballotQuery, ballot.ID, ballot.VoterID, ballot.ElectionID).Scan(&ballot.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "voter") {
				return domain.ErrAlreadyVoted
			}
		}
		return fmt.Errorf("failed to create ballot: %w", err)
	}

	voteQuery := `
		INSERT INTO votes (ballot_id, voter_id, candidate_id, position_id, election_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range votes {
		votes[i].BallotID = ballot.ID
		votes[i].CreatedAt = ballot.CreatedAt
		if _, err := tx.Exec(ctx, voteQuery,
			ballot.ID,
			votes[i].VoterID,
			votes[i].CandidateID,
			votes[i].PositionID,
			votes[i].ElectionID,
		); err != nil {
			return fmt.Errorf("failed to create vote: %w", err)
		}
	}

	abstainQuery := `
		INSERT INTO abstentions (ballot_id, voter_id, position_id, election_id)
		VALUES ($1, $2, $3, $4)
	`
	for i := range abstentions {
		abstentions[i].BallotID = ballot.ID
		abstentions[i].CreatedAt = ballot.CreatedAt
		if _, err := tx.Exec(ctx, abstainQuery,
			ballot.ID,
			abstentions[i].VoterID,
			abstentions[i].PositionID,
			abstentions[i].ElectionID,
		); err != nil {
			return fmt.Errorf("failed to create abstention: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ballot: %w", err)
	}

	return nil
}

// GetBallot gets a voter's ballot for an election, nil when none exists
func (r *BallotRepository) GetBallot(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error) {
	var ballot domain.Ballot
	query := `
		SELECT id, voter_id, election_id, created_at
		FROM ballots
		WHERE voter_id = $1 AND election_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, voterID, electionID).Scan(
		&ballot.ID,
		&ballot.VoterID,
		&ballot.ElectionID,
		&ballot.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}

	return &ballot, nil
}

// HasVoted checks whether a voter already cast a ballot in an election
func (r *BallotRepository) HasVoted(ctx context.Context, voterID string, electionID int) (bool, error) {
	query := `SELECT 1 FROM ballots WHERE voter_id = $1 AND election_id = $2 LIMIT 1`

	var exists int
	err := r.db.Pool.QueryRow(ctx, query, voterID, electionID).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existing ballot: %w", err)
	}

	return true, nil
}

// GetVoteCountsByElection returns vote counts keyed by candidate ID
func (r *BallotRepository) GetVoteCountsByElection(ctx context.Context, electionID int) (map[int]int, error) {
	query := `
		SELECT candidate_id, COUNT(*)
		FROM votes
		WHERE election_id = $1
		GROUP BY candidate_id
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var candidateID, count int
		if err := rows.Scan(&candidateID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[candidateID] = count
	}

	return counts, nil
}

// GetAbstentionCountsByElection returns abstention counts keyed by position ID
func (r *BallotRepository) GetAbstentionCountsByElection(ctx context.Context, electionID int) (map[int]int, error) {
	query := `
		SELECT position_id, COUNT(*)
		FROM abstentions
		WHERE election_id = $1
		GROUP BY position_id
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get abstention counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var positionID, count int
		if err := rows.Scan(&positionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan abstention count: %w", err)
		}
		counts[positionID] = count
	}

	return counts, nil
}

// CountBallots counts distinct ballots cast in an election
func (r *BallotRepository) CountBallots(ctx context.Context, electionID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM ballots WHERE election_id = $1`

	if err := r.db.Pool.QueryRow(ctx, query, electionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}

	return count, nil
}

// CountVotes counts vote rows in an election
func (r *BallotRepository) CountVotes(ctx context.Context, electionID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM votes WHERE election_id = $1`

	if err := r.db.Pool.QueryRow(ctx, query, electionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}

	return count, nil
}

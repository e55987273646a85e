package service

import (
	"context"

	"evote-api/internal/domain"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// ValidateToken validates an identity-provider bearer token and returns
	// the authenticated principal
	ValidateToken(ctx context.Context, token string) (*domain.Principal, error)
}

// ElectionStore defines the election/position/candidate reads the voting
// workflow needs, plus the status-sync and certification writes
type ElectionStore interface {
	GetElectionByID(ctx context.Context, id int) (*domain.Election, error)
	ListElections(ctx context.Context) ([]domain.Election, error)
	GetPositionsByElection(ctx context.Context, electionID int) ([]domain.Position, error)
	GetCandidatesByElection(ctx context.Context, electionID int) ([]domain.Candidate, error)
	UpdateElectionStatus(ctx context.Context, id int, status domain.ElectionStatus) error
	MarkOfficial(ctx context.Context, id int) error
	CountEligibleVoters(ctx context.Context, restriction domain.VoterRestriction) (int, error)
}

// BallotStore defines ballot persistence and tally reads
type BallotStore interface {
	// CreateBallot persists the ballot with its votes and abstentions in one
	// transaction. Returns domain.ErrAlreadyVoted when the (voter, election)
	// uniqueness constraint rejects the insert.
	CreateBallot(ctx context.Context, ballot *domain.Ballot, votes []domain.Vote, abstentions []domain.Abstention) error
	GetBallot(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error)
	HasVoted(ctx context.Context, voterID string, electionID int) (bool, error)
	GetVoteCountsByElection(ctx context.Context, electionID int) (map[int]int, error)
	GetAbstentionCountsByElection(ctx context.Context, electionID int) (map[int]int, error)
	CountBallots(ctx context.Context, electionID int) (int, error)
	CountVotes(ctx context.Context, electionID int) (int, error)
}

// AuditStore is the append-only audit trail sink
type AuditStore interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
	ListByElection(ctx context.Context, electionID int, limit int) ([]domain.AuditLog, error)
}

// Notifier delivers ballot confirmations to the external notification sender
type Notifier interface {
	SendBallotConfirmation(ctx context.Context, confirmation *domain.BallotConfirmation) error
}

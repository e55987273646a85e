package domain

import "time"

// Ballot is the single submission a voter makes for an election. The storage
// layer enforces uniqueness over (voter_id, election_id), so two racing
// submissions can never both persist.
type Ballot struct {
	ID         string    `json:"id"`
	VoterID    string    `json:"voter_id"`
	ElectionID int       `json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Vote is one immutable (voter, candidate, position) selection within a
// ballot. Never updated, never deleted.
type Vote struct {
	ID          int       `json:"id"`
	BallotID    string    `json:"ballot_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID int       `json:"candidate_id"`
	PositionID  int       `json:"position_id"`
	ElectionID  int       `json:"election_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Abstention records a voter's explicit choice to select no candidate for a
// position. Persisted as its own row so a stored ballot is self-describing.
type Abstention struct {
	ID         int       `json:"id"`
	BallotID   string    `json:"ballot_id"`
	VoterID    string    `json:"voter_id"`
	PositionID int       `json:"position_id"`
	ElectionID int       `json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BallotRequest is the submit-ballot payload: selections keyed by position ID
// plus the positions the voter explicitly abstains on. Every position of the
// election must appear in exactly one of the two.
type BallotRequest struct {
	Votes            map[int][]int `json:"votes"`
	AbstainPositions []int         `json:"abstain_positions"`
}

// BallotResponse confirms a successful submission
type BallotResponse struct {
	Message    string    `json:"message"`
	BallotID   string    `json:"ballot_id"`
	VotesCount int       `json:"votes_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// BallotStatus reports whether the requesting voter has cast a ballot
type BallotStatus struct {
	HasVoted bool       `json:"has_voted"`
	BallotID string     `json:"ballot_id,omitempty"`
	VotedAt  *time.Time `json:"voted_at,omitempty"`
}

// BallotLine is one position's entry in a confirmation notification
type BallotLine struct {
	PositionTitle  string `json:"position_title"`
	CandidateName  string `json:"candidate_name"`
	CandidateImage string `json:"candidate_image,omitempty"`
	Abstained      bool   `json:"abstained"`
}

// BallotConfirmation is the payload dispatched to the notification sender
// after a successful submission
type BallotConfirmation struct {
	VoterEmail     string       `json:"voter_email"`
	VoterName      string       `json:"voter_name"`
	ElectionTitle  string       `json:"election_title"`
	Selections     []BallotLine `json:"selections"`
	VotedAt        time.Time    `json:"voted_at"`
	ElectionEndsAt time.Time    `json:"election_ends_at"`
}

// AuditLog is one append-only audit trail entry
type AuditLog struct {
	ID         int       `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	ElectionID *int      `json:"election_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit actions recorded by this service
const (
	AuditActionVoteCast         = "VOTE_CAST"
	AuditActionElectionOfficial = "ELECTION_MARKED_OFFICIAL"
)

package domain

import "time"

// CandidateResult is one candidate's standing within a position ranking
type CandidateResult struct {
	CandidateID int     `json:"candidate_id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"image_url,omitempty"`
	VoteCount   int     `json:"vote_count"`
	Rank        int     `json:"rank"`
	Percentage  float64 `json:"percentage"`
	IsLeading   bool    `json:"is_leading"`
	IsWinner    bool    `json:"is_winner"`
}

// PositionResult is the ranked outcome for one position
type PositionResult struct {
	PositionID  int               `json:"position_id"`
	Title       string            `json:"title"`
	WinnerCount int               `json:"winner_count"`
	TotalVotes  int               `json:"total_votes"`
	Abstentions int               `json:"abstentions"`
	Candidates  []CandidateResult `json:"candidates"`
}

// Turnout summarizes participation for an election
type Turnout struct {
	EligibleVoters int     `json:"eligible_voters"`
	BallotsCast    int     `json:"ballots_cast"`
	Participation  float64 `json:"participation_percent"`
}

// ElectionResults is the full live or official tally for an election.
// Producing it is a pure read; pollers may request it repeatedly.
type ElectionResults struct {
	ElectionID int              `json:"election_id"`
	Title      string           `json:"title"`
	Status     ElectionStatus   `json:"status"`
	IsOfficial bool             `json:"is_official"`
	Positions  []PositionResult `json:"positions"`
	TotalVotes int              `json:"total_votes"`
	Turnout    Turnout          `json:"turnout"`
	LastUpdate time.Time        `json:"last_update"`
}

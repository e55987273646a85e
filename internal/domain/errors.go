package domain

import "errors"

// Sentinel errors surfaced by the storage layer
var (
	// ErrAlreadyVoted is returned when a ballot insert hits the unique
	// (voter_id, election_id) constraint
	ErrAlreadyVoted = errors.New("voter has already cast a ballot for this election")

	// ErrElectionNotFound is returned for reads of an unknown election
	ErrElectionNotFound = errors.New("election not found")
)

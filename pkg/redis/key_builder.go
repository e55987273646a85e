package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Election key builders

func (kb *KeyBuilder) KeyElectionByID(electionID int) string {
	return kb.BuildKey(fmt.Sprintf(KeyElectionByID, electionID))
}

func (kb *KeyBuilder) KeyElectionList() string {
	return kb.BuildKey(KeyElectionList)
}

func (kb *KeyBuilder) KeyElectionPaper(electionID int) string {
	return kb.BuildKey(fmt.Sprintf(KeyElectionPaper, electionID))
}

func (kb *KeyBuilder) KeyResults(electionID int) string {
	return kb.BuildKey(fmt.Sprintf(KeyResults, electionID))
}

func (kb *KeyBuilder) KeyEligibleCount(electionID int) string {
	return kb.BuildKey(fmt.Sprintf(KeyEligibleCount, electionID))
}

// Voter key builders

func (kb *KeyBuilder) KeyVoterBallot(electionID int, voterID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyVoterBallot, electionID, voterID))
}

func (kb *KeyBuilder) KeySubmitLock(electionID int, voterID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySubmitLock, electionID, voterID))
}

// KeyCustom builds an ad-hoc key from a format string
func (kb *KeyBuilder) KeyCustom(format string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(format, args...))
}

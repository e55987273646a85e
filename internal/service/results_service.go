package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/errors"
	"evote-api/pkg/redis"

	"go.uber.org/zap"
)

// ResultsService produces per-position candidate rankings, vote totals and
// turnout for an election. It is a pure read and may be polled freely; the
// assembled tally is cached briefly and masked per request.
type ResultsService struct {
	elections ElectionStore
	ballots   BallotStore
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewResultsService creates a new results service
func NewResultsService(elections ElectionStore, ballots BallotStore, redisClient *redis.Client, logger *zap.Logger) *ResultsService {
	return &ResultsService{
		elections: elections,
		ballots:   ballots,
		cache:     NewCacheService(redisClient, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// GetElectionResults returns the ranked tally for an election. Candidate
// identities are anonymized unless the election is official or the viewer
// carries the ADMIN role; the ranking itself is identical either way.
func (s *ResultsService) GetElectionResults(ctx context.Context, electionID int, viewer *domain.Principal) (*domain.ElectionResults, error) {
	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	syncElectionStatus(ctx, s.elections, election, s.now(), s.logger)

	results, err := s.cache.GetResultsWithCache(ctx, electionID, func(ctx context.Context) (*domain.ElectionResults, error) {
		return s.buildResults(ctx, election)
	})
	if err != nil {
		return nil, errors.NewInternalError("Failed to build election results", err)
	}

	if !results.IsOfficial && !viewer.IsAdmin() {
		maskCandidateIdentities(results)
	}

	return results, nil
}

// buildResults assembles the unmasked tally from storage
func (s *ResultsService) buildResults(ctx context.Context, election *domain.Election) (*domain.ElectionResults, error) {
	positions, err := s.elections.GetPositionsByElection(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	candidates, err := s.elections.GetCandidatesByElection(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}

	voteCounts, err := s.ballots.GetVoteCountsByElection(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote counts: %w", err)
	}

	abstentionCounts, err := s.ballots.GetAbstentionCountsByElection(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get abstention counts: %w", err)
	}

	totalVotes, err := s.ballots.CountVotes(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	ballotsCast, err := s.ballots.CountBallots(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ballots: %w", err)
	}

	eligible, err := s.cache.GetEligibleCountWithCache(ctx, election.ID, func(ctx context.Context) (int, error) {
		return s.elections.CountEligibleVoters(ctx, election.Restriction)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count eligible voters: %w", err)
	}

	candidatesByPosition := make(map[int][]domain.Candidate)
	for _, candidate := range candidates {
		candidatesByPosition[candidate.PositionID] = append(candidatesByPosition[candidate.PositionID], candidate)
	}

	positionResults := make([]domain.PositionResult, 0, len(positions))
	for _, position := range positions {
		positionResults = append(positionResults, buildPositionRanking(
			position,
			candidatesByPosition[position.ID],
			voteCounts,
			abstentionCounts[position.ID],
			election.IsOfficial,
		))
	}

	participation := 0.0
	if eligible > 0 {
		participation = float64(ballotsCast) / float64(eligible) * 100
	}

	return &domain.ElectionResults{
		ElectionID: election.ID,
		Title:      election.Title,
		Status:     election.Status,
		IsOfficial: election.IsOfficial,
		Positions:  positionResults,
		TotalVotes: totalVotes,
		Turnout: domain.Turnout{
			EligibleVoters: eligible,
			BallotsCast:    ballotsCast,
			Participation:  participation,
		},
		LastUpdate: s.now(),
	}, nil
}

// buildPositionRanking ranks one position's candidates by vote count
// descending. Ties break on candidate ID ascending, so result ordering is
// stable and reproducible across polls.
func buildPositionRanking(position domain.Position, candidates []domain.Candidate, voteCounts map[int]int, abstentions int, official bool) domain.PositionResult {
	ranked := make([]domain.CandidateResult, 0, len(candidates))
	positionTotal := 0
	for _, candidate := range candidates {
		count := voteCounts[candidate.ID]
		positionTotal += count
		ranked = append(ranked, domain.CandidateResult{
			CandidateID: candidate.ID,
			Name:        candidate.Name,
			ImageURL:    candidate.ImageURL,
			VoteCount:   count,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		if positionTotal > 0 {
			ranked[i].Percentage = float64(ranked[i].VoteCount) / float64(positionTotal) * 100
		}
		top := i < position.WinnerCount && ranked[i].VoteCount > 0
		ranked[i].IsLeading = top && !official
		ranked[i].IsWinner = top && official
	}

	return domain.PositionResult{
		PositionID:  position.ID,
		Title:       position.Title,
		WinnerCount: position.WinnerCount,
		TotalVotes:  positionTotal,
		Abstentions: abstentions,
		Candidates:  ranked,
	}
}

// maskCandidateIdentities replaces candidate names with rank placeholders for
// viewers not entitled to provisional identities
func maskCandidateIdentities(results *domain.ElectionResults) {
	for p := range results.Positions {
		for c := range results.Positions[p].Candidates {
			candidate := &results.Positions[p].Candidates[c]
			candidate.Name = fmt.Sprintf("Candidate %d", candidate.Rank)
			candidate.ImageURL = ""
		}
	}
}

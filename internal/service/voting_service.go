package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/errors"
	"evote-api/pkg/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VotingService implements the eligibility gate and the ballot validator and
// persister. All validation completes before anything is written; a single
// invalid position aborts the whole ballot with zero rows persisted.
type VotingService struct {
	elections ElectionStore
	ballots   BallotStore
	audit     AuditStore
	notifier  Notifier
	redis     *redis.Client
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewVotingService creates a new voting service
func NewVotingService(elections ElectionStore, ballots BallotStore, audit AuditStore, notifier Notifier, redisClient *redis.Client, logger *zap.Logger) *VotingService {
	return &VotingService{
		elections: elections,
		ballots:   ballots,
		audit:     audit,
		notifier:  notifier,
		redis:     redisClient,
		cache:     NewCacheService(redisClient, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitBallot validates a voter's eligibility and ballot content, then
// persists the ballot atomically. The gate order is fixed: identity, election
// existence, status sync, timing window, status, restriction, prior ballot,
// position coverage, then per-position content.
func (s *VotingService) SubmitBallot(ctx context.Context, principal *domain.Principal, electionID int, req *domain.BallotRequest) (*domain.BallotResponse, error) {
	if principal == nil || principal.ID == "" {
		return nil, errors.NewAuthenticationError("Authentication required")
	}
	if req == nil {
		return nil, errors.NewValidationError("Request body is required", nil)
	}

	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	now := s.now()
	syncElectionStatus(ctx, s.elections, election, now, s.logger)

	if now.Before(election.StartDate) {
		return nil, errors.NewValidationError("Voting for this election has not started yet", nil)
	}
	if now.After(election.EndDate) {
		return nil, errors.NewValidationError("Voting for this election has already ended", nil)
	}

	// The window check above should guarantee this; kept as a hard stop
	// against any other state reaching the ballot box.
	if election.Status != domain.ElectionOngoing {
		return nil, errors.NewValidationError("Election is not open for voting", nil)
	}

	if !election.Restriction.Allows(principal.UserType) {
		return nil, errors.NewAuthorizationError("You are not eligible to vote in this election")
	}

	locked, release := s.acquireSubmitLock(ctx, electionID, principal.ID)
	if !locked {
		return nil, errors.NewConflictError("Your ballot is already being processed")
	}
	committed := false
	defer func() {
		// A rejected ballot may be corrected and resubmitted while the
		// window is open, so the lock only outlives a persisted one.
		if !committed {
			release()
		}
	}()

	hasVoted, err := s.ballots.HasVoted(ctx, principal.ID, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to check existing ballot", err)
	}
	if hasVoted {
		return nil, errors.NewConflictError("You have already voted in this election.")
	}

	positions, err := s.elections.GetPositionsByElection(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load positions", err)
	}
	if len(positions) == 0 {
		return nil, errors.NewValidationError("Election has no positions open for voting", nil)
	}

	candidates, err := s.elections.GetCandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load candidates", err)
	}

	votes, abstentions, validationErr := buildBallotRows(principal.ID, election, positions, candidates, req)
	if validationErr != nil {
		return nil, validationErr
	}

	ballot := &domain.Ballot{
		ID:         uuid.NewString(),
		VoterID:    principal.ID,
		ElectionID: electionID,
	}

	if err := s.ballots.CreateBallot(ctx, ballot, votes, abstentions); err != nil {
		if err == domain.ErrAlreadyVoted {
			return nil, errors.NewConflictError("You have already voted in this election.")
		}
		return nil, errors.NewInternalError("Failed to save ballot", err)
	}
	committed = true

	s.appendVoteAudit(ctx, principal.ID, ballot, len(votes), len(abstentions))

	s.cache.CacheBallotStatus(ctx, electionID, principal.ID, &domain.BallotStatus{
		HasVoted: true,
		BallotID: ballot.ID,
		VotedAt:  &ballot.CreatedAt,
	})
	s.cache.InvalidateElectionCaches(ctx, electionID)

	s.dispatchConfirmation(principal, election, positions, candidates, req, ballot)

	s.logger.Info("Ballot submitted",
		zap.String("user_id", principal.ID),
		zap.Int("election_id", electionID),
		zap.Int("votes", len(votes)),
		zap.Int("abstentions", len(abstentions)))

	return &domain.BallotResponse{
		Message:    "Votes submitted successfully!",
		BallotID:   ballot.ID,
		VotesCount: len(votes),
		Timestamp:  ballot.CreatedAt,
	}, nil
}

// GetBallotStatus reports whether a voter has cast a ballot in an election
func (s *VotingService) GetBallotStatus(ctx context.Context, principal *domain.Principal, electionID int) (*domain.BallotStatus, error) {
	if principal == nil || principal.ID == "" {
		return nil, errors.NewAuthenticationError("Authentication required")
	}

	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	status, err := s.cache.GetBallotStatusWithCache(ctx, electionID, principal.ID, s.ballots.GetBallot)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get ballot status", err)
	}
	return status, nil
}

// HealthCheck verifies the service's cache dependency
func (s *VotingService) HealthCheck(ctx context.Context) error {
	return s.cache.HealthCheck(ctx)
}

// acquireSubmitLock takes the short-lived Redis submission lock for a
// (voter, election) pair. Without Redis the lock degrades to a no-op and the
// database uniqueness constraint remains the real guard.
func (s *VotingService) acquireSubmitLock(ctx context.Context, electionID int, voterID string) (bool, func()) {
	if s.redis == nil {
		return true, func() {}
	}

	key := s.redis.KeyBuilder.KeySubmitLock(electionID, voterID)
	ok, err := s.redis.SetNX(ctx, key, "1", redis.TTLSubmitLock)
	if err != nil {
		s.logger.Warn("Submit lock unavailable, relying on storage constraint",
			zap.Int("election_id", electionID),
			zap.Error(err))
		return true, func() {}
	}

	release := func() {
		if delErr := s.redis.Delete(ctx, key); delErr != nil {
			s.logger.Debug("Failed to release submit lock", zap.Error(delErr))
		}
	}
	return ok, release
}

// appendVoteAudit records the vote-cast event. Audit is best-effort: a sink
// failure is logged and swallowed, never rolled into the submission result.
func (s *VotingService) appendVoteAudit(ctx context.Context, voterID string, ballot *domain.Ballot, votes, abstentions int) {
	details, _ := json.Marshal(map[string]interface{}{
		"ballot_id":   ballot.ID,
		"votes":       votes,
		"abstentions": abstentions,
	})

	entry := &domain.AuditLog{
		UserID:     voterID,
		Action:     domain.AuditActionVoteCast,
		Details:    string(details),
		ElectionID: &ballot.ElectionID,
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append vote audit entry",
			zap.String("user_id", voterID),
			zap.Int("election_id", ballot.ElectionID),
			zap.Error(err))
	}
}

// dispatchConfirmation sends the ballot confirmation off the request path.
// Failures are logged only; the ballot is already persisted.
func (s *VotingService) dispatchConfirmation(principal *domain.Principal, election *domain.Election, positions []domain.Position, candidates []domain.Candidate, req *domain.BallotRequest, ballot *domain.Ballot) {
	if s.notifier == nil {
		return
	}

	confirmation := buildConfirmation(principal, election, positions, candidates, req, ballot)
	log := s.logger

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.SendBallotConfirmation(ctx, confirmation); err != nil {
			log.Warn("Failed to send ballot confirmation",
				zap.String("user_id", principal.ID),
				zap.Int("election_id", election.ID),
				zap.Error(err))
		}
	}()
}

// buildBallotRows validates the ballot content against the election's
// positions and candidates and produces the rows to persist. Any violation
// aborts the entire ballot.
func buildBallotRows(voterID string, election *domain.Election, positions []domain.Position, candidates []domain.Candidate, req *domain.BallotRequest) ([]domain.Vote, []domain.Abstention, *errors.AppError) {
	positionByID := make(map[int]domain.Position, len(positions))
	for _, position := range positions {
		positionByID[position.ID] = position
	}

	candidateByID := make(map[int]domain.Candidate, len(candidates))
	for _, candidate := range candidates {
		candidateByID[candidate.ID] = candidate
	}

	abstained := make(map[int]bool, len(req.AbstainPositions))
	for _, positionID := range req.AbstainPositions {
		if _, ok := positionByID[positionID]; !ok {
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("Position %d does not belong to this election", positionID), nil)
		}
		if _, voted := req.Votes[positionID]; voted {
			position := positionByID[positionID]
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("Position %q cannot be both voted and abstained", position.Title), nil)
		}
		abstained[positionID] = true
	}

	// Coverage: every position either voted or abstained.
	for _, position := range positions {
		if _, voted := req.Votes[position.ID]; !voted && !abstained[position.ID] {
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("Vote or abstain for all positions: %q is unaddressed", position.Title), nil)
		}
	}

	var votes []domain.Vote
	for positionID, selections := range req.Votes {
		position, ok := positionByID[positionID]
		if !ok {
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("Position %d does not belong to this election", positionID), nil)
		}

		if len(selections) != position.WinnerCount {
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("Select exactly %d candidate(s) for position %q", position.WinnerCount, position.Title), nil)
		}

		seen := make(map[int]bool, len(selections))
		for _, candidateID := range selections {
			if seen[candidateID] {
				return nil, nil, errors.NewValidationError(
					fmt.Sprintf("Duplicate candidate selection for position %q", position.Title), nil)
			}
			seen[candidateID] = true

			candidate, ok := candidateByID[candidateID]
			if !ok || candidate.PositionID != positionID || !candidate.Votable() {
				return nil, nil, errors.NewValidationError(
					fmt.Sprintf("Invalid or inactive candidate for position %q", position.Title), nil)
			}

			votes = append(votes, domain.Vote{
				VoterID:     voterID,
				CandidateID: candidateID,
				PositionID:  positionID,
				ElectionID:  election.ID,
			})
		}
	}

	abstentions := make([]domain.Abstention, 0, len(abstained))
	for _, position := range positions {
		if abstained[position.ID] {
			abstentions = append(abstentions, domain.Abstention{
				VoterID:    voterID,
				PositionID: position.ID,
				ElectionID: election.ID,
			})
		}
	}

	return votes, abstentions, nil
}

// buildConfirmation assembles the human-readable ballot summary, one line per
// selected candidate plus an "Abstained" line per abstained position, in
// position order
func buildConfirmation(principal *domain.Principal, election *domain.Election, positions []domain.Position, candidates []domain.Candidate, req *domain.BallotRequest, ballot *domain.Ballot) *domain.BallotConfirmation {
	candidateByID := make(map[int]domain.Candidate, len(candidates))
	for _, candidate := range candidates {
		candidateByID[candidate.ID] = candidate
	}

	abstained := make(map[int]bool, len(req.AbstainPositions))
	for _, positionID := range req.AbstainPositions {
		abstained[positionID] = true
	}

	var lines []domain.BallotLine
	for _, position := range positions {
		if abstained[position.ID] {
			lines = append(lines, domain.BallotLine{
				PositionTitle: position.Title,
				CandidateName: "Abstained",
				Abstained:     true,
			})
			continue
		}
		for _, candidateID := range req.Votes[position.ID] {
			candidate := candidateByID[candidateID]
			lines = append(lines, domain.BallotLine{
				PositionTitle:  position.Title,
				CandidateName:  candidate.Name,
				CandidateImage: candidate.ImageURL,
			})
		}
	}

	return &domain.BallotConfirmation{
		VoterEmail:     principal.Email,
		VoterName:      principal.Name,
		ElectionTitle:  election.Title,
		Selections:     lines,
		VotedAt:        ballot.CreatedAt,
		ElectionEndsAt: election.EndDate,
	}
}

// syncElectionStatus recomputes the derived status against wall-clock time
// right before it is relied on, so a stale stored status never gates a
// ballot. The write is a freshness correction; a failure is logged and the
// derived value is used regardless.
func syncElectionStatus(ctx context.Context, store ElectionStore, election *domain.Election, now time.Time, logger *zap.Logger) {
	derived := election.DeriveStatus(now)
	if derived == election.Status {
		return
	}

	if err := store.UpdateElectionStatus(ctx, election.ID, derived); err != nil {
		logger.Warn("Failed to sync election status",
			zap.Int("election_id", election.ID),
			zap.String("derived", string(derived)),
			zap.Error(err))
	}
	election.Status = derived
}

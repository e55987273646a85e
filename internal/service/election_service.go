package service

import (
	"context"
	"encoding/json"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/errors"
	"evote-api/pkg/redis"

	"go.uber.org/zap"
)

// ElectionService serves election reads for the voting surface and the
// administrative certification action. Election, position and candidate
// records themselves are owned by the administrative CRUD system; this
// service only reads them and corrects a stale derived status.
type ElectionService struct {
	elections ElectionStore
	audit     AuditStore
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewElectionService creates a new election service
func NewElectionService(elections ElectionStore, audit AuditStore, redisClient *redis.Client, logger *zap.Logger) *ElectionService {
	return &ElectionService{
		elections: elections,
		audit:     audit,
		cache:     NewCacheService(redisClient, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// ListElections lists all elections with freshly derived statuses
func (s *ElectionService) ListElections(ctx context.Context) ([]domain.Election, error) {
	elections, err := s.elections.ListElections(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list elections", err)
	}

	now := s.now()
	for i := range elections {
		syncElectionStatus(ctx, s.elections, &elections[i], now, s.logger)
	}

	return elections, nil
}

// GetElection returns one election with its ballot paper
func (s *ElectionService) GetElection(ctx context.Context, electionID int) (*domain.ElectionDetail, error) {
	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	syncElectionStatus(ctx, s.elections, election, s.now(), s.logger)

	positions, err := s.elections.GetPositionsByElection(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load positions", err)
	}

	candidates, err := s.elections.GetCandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load candidates", err)
	}

	candidatesByPosition := make(map[int][]domain.Candidate)
	for _, candidate := range candidates {
		candidatesByPosition[candidate.PositionID] = append(candidatesByPosition[candidate.PositionID], candidate)
	}

	detail := &domain.ElectionDetail{Election: *election}
	for _, position := range positions {
		detail.Positions = append(detail.Positions, domain.PositionBallot{
			Position:   position,
			Candidates: candidatesByPosition[position.ID],
		})
	}

	return detail, nil
}

// MarkOfficial certifies an election's results. Only allowed once the voting
// window has closed; the action is audit-logged and drops the tally caches so
// the next results read discloses real identities.
func (s *ElectionService) MarkOfficial(ctx context.Context, principal *domain.Principal, electionID int) (*domain.Election, error) {
	if !principal.IsAdmin() {
		return nil, errors.NewAuthorizationError("Administrator role required")
	}

	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	if election.IsOfficial {
		return nil, errors.NewConflictError("Election results are already official")
	}

	if s.now().Before(election.EndDate) {
		return nil, errors.NewValidationError("Cannot certify results while the voting window is open", nil)
	}

	if err := s.elections.MarkOfficial(ctx, electionID); err != nil {
		if err == domain.ErrElectionNotFound {
			return nil, errors.NewNotFoundError("Election not found")
		}
		return nil, errors.NewInternalError("Failed to mark election official", err)
	}

	election.IsOfficial = true
	election.Status = domain.ElectionCompleted

	details, _ := json.Marshal(map[string]interface{}{"title": election.Title})
	entry := &domain.AuditLog{
		UserID:     principal.ID,
		Action:     domain.AuditActionElectionOfficial,
		Details:    string(details),
		ElectionID: &electionID,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append certification audit entry",
			zap.Int("election_id", electionID),
			zap.Error(err))
	}

	s.cache.InvalidateElectionCaches(ctx, electionID)

	s.logger.Info("Election marked official",
		zap.Int("election_id", electionID),
		zap.String("user_id", principal.ID))

	return election, nil
}

// GetAuditTrail returns recent audit entries for an election
func (s *ElectionService) GetAuditTrail(ctx context.Context, electionID int, limit int) ([]domain.AuditLog, error) {
	election, err := s.elections.GetElectionByID(ctx, electionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load election", err)
	}
	if election == nil {
		return nil, errors.NewNotFoundError("Election not found")
	}

	entries, err := s.audit.ListByElection(ctx, electionID, limit)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load audit trail", err)
	}

	return entries, nil
}

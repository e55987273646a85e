package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"evote-api/internal/domain"
	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/pkg/errors"

	"github.com/go-chi/chi/v5"
)

type VotingHandler struct {
	votingService *service.VotingService
}

func NewVotingHandler(votingService *service.VotingService) *VotingHandler {
	return &VotingHandler{
		votingService: votingService,
	}
}

// SubmitBallot handles POST /api/v1/elections/{electionID}/ballot
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.PrincipalFromContext(ctx)
	if principal == nil {
		respondError(w, errors.NewAuthenticationError("Authentication required"))
		return
	}

	electionID, err := electionIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req domain.BallotRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		respondError(w, errors.NewValidationError("Invalid request body", nil))
		return
	}

	if validationErr := validateBallotRequest(&req); validationErr != nil {
		respondError(w, validationErr)
		return
	}

	response, submitErr := h.votingService.SubmitBallot(ctx, principal, electionID, &req)
	if submitErr != nil {
		respondError(w, submitErr)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// GetMyBallot handles GET /api/v1/elections/{electionID}/my-ballot
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.PrincipalFromContext(ctx)
	if principal == nil {
		respondError(w, errors.NewAuthenticationError("Authentication required"))
		return
	}

	electionID, err := electionIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	status, statusErr := h.votingService.GetBallotStatus(ctx, principal, electionID)
	if statusErr != nil {
		respondError(w, statusErr)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// validateBallotRequest checks the payload shape before it reaches the
// service: selection arrays must be present and non-negative identifiers only
func validateBallotRequest(req *domain.BallotRequest) *errors.AppError {
	if req.Votes == nil && len(req.AbstainPositions) == 0 {
		return errors.NewValidationError("Ballot must contain votes or abstentions", nil)
	}

	for positionID, selections := range req.Votes {
		if positionID <= 0 {
			return errors.NewValidationError("Invalid position ID in ballot", nil)
		}
		if len(selections) == 0 {
			return errors.NewValidationError(
				fmt.Sprintf("No candidates selected for position %d; list it under abstain_positions to abstain", positionID), nil)
		}
		for _, candidateID := range selections {
			if candidateID <= 0 {
				return errors.NewValidationError("Invalid candidate ID in ballot", nil)
			}
		}
	}

	for _, positionID := range req.AbstainPositions {
		if positionID <= 0 {
			return errors.NewValidationError("Invalid position ID in abstain list", nil)
		}
	}

	return nil
}

// electionIDParam parses the election ID path parameter
func electionIDParam(r *http.Request) (int, *errors.AppError) {
	raw := chi.URLParam(r, "electionID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("Invalid election ID", nil)
	}
	return id, nil
}

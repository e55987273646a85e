package handler

import (
	"net/http"
	"strconv"

	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/pkg/errors"
)

type ElectionHandler struct {
	electionService *service.ElectionService
}

func NewElectionHandler(electionService *service.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
	}
}

// ListElections handles GET /api/v1/elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.electionService.ListElections(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"elections": elections,
	})
}

// GetElection handles GET /api/v1/elections/{electionID}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID, err := electionIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, getErr := h.electionService.GetElection(r.Context(), electionID)
	if getErr != nil {
		respondError(w, getErr)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// MarkOfficial handles POST /api/v1/elections/{electionID}/official
func (h *ElectionHandler) MarkOfficial(w http.ResponseWriter, r *http.Request) {
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

	election, markErr := h.electionService.MarkOfficial(ctx, principal, electionID)
	if markErr != nil {
		respondError(w, markErr)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Election results are now official",
		"election": election,
	})
}

// GetAuditTrail handles GET /api/v1/elections/{electionID}/audit
func (h *ElectionHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	electionID, err := electionIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil {
			limit = parsed
		}
	}

	entries, listErr := h.electionService.GetAuditTrail(r.Context(), electionID, limit)
	if listErr != nil {
		respondError(w, listErr)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

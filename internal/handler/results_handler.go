package handler

import (
	"net/http"

	"evote-api/internal/middleware"
	"evote-api/internal/service"
)

type ResultsHandler struct {
	resultsService *service.ResultsService
}

func NewResultsHandler(resultsService *service.ResultsService) *ResultsHandler {
	return &ResultsHandler{
		resultsService: resultsService,
	}
}

// GetResults handles GET /api/v1/elections/{electionID}/results. Clients poll
// this endpoint, so it carries ETag and short-lived cache headers.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	electionID, err := electionIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	viewer := middleware.PrincipalFromContext(ctx)

	results, resultsErr := h.resultsService.GetElectionResults(ctx, electionID, viewer)
	if resultsErr != nil {
		respondError(w, resultsErr)
		return
	}

	etag := generateETag(results)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=30")

	respondJSON(w, http.StatusOK, results)
}

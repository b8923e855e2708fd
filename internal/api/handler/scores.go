package handler

import (
	"net/http"

	"github.com/mcoot/tetrisparty/internal/api/request"
	"github.com/mcoot/tetrisparty/internal/api/response"
	"github.com/mcoot/tetrisparty/internal/services/scores"
)

// ScoresHandler serves the score log
type ScoresHandler struct {
	scores *scores.Service
}

// NewScoresHandler creates a new scores handler
func NewScoresHandler(scores *scores.Service) *ScoresHandler {
	return &ScoresHandler{scores: scores}
}

// List handles GET /api/v1/scores
func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := request.ParseListScores(r)
	if err != nil {
		writeInvalid(w, err)
		return
	}

	entries, err := h.scores.List(r.Context(), q.Limit)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Scores(entries))
}

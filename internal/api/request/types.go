package request

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mcoot/tetrisparty/internal/model"
)

// ListScoresQuery is the query string of GET /scores
type ListScoresQuery struct {
	Limit int
}

// ParseListScores reads ?limit=, defaulting to the full list
func ParseListScores(r *http.Request) (ListScoresQuery, error) {
	q := ListScoresQuery{Limit: model.MaxScores}
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return q, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > model.MaxScores {
		return q, fmt.Errorf("limit must be between 1 and %d", model.MaxScores)
	}
	q.Limit = limit
	return q, nil
}

// QRQuery is the query string of GET /qr
type QRQuery struct {
	Size int
}

// ParseQR reads ?size=, the PNG edge length in pixels
func ParseQR(r *http.Request) (QRQuery, error) {
	q := QRQuery{Size: 320}
	raw := r.URL.Query().Get("size")
	if raw == "" {
		return q, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 64 || size > 1024 {
		return q, fmt.Errorf("size must be between 64 and 1024")
	}
	q.Size = size
	return q, nil
}

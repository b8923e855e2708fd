package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/tetrisparty/internal/api/apierr"
)

// writeInvalid reports a request whose parameters failed to parse
func writeInvalid(w http.ResponseWriter, err error) {
	apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
}

func writeError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// MethodNotAllowed answers any request that reached a path registered only
// for other methods
func MethodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, apierr.NewMethodNotAllowedError(r.Method))
	}
}

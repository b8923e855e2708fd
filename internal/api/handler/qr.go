package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mcoot/tetrisparty/internal/api/request"
	"github.com/mcoot/tetrisparty/internal/api/response"
)

// ControlsPath is where phones open the controller page
const ControlsPath = "/controls"

// QRHandler renders a join code pointing phones at the controller page
type QRHandler struct {
	publicURL string
	logger    *slog.Logger
}

// NewQRHandler creates a new QR handler. With an empty publicURL the link is
// built from the request's Host.
func NewQRHandler(publicURL string, logger *slog.Logger) *QRHandler {
	return &QRHandler{
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}
}

// Get handles GET /api/v1/qr
func (h *QRHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := request.ParseQR(r)
	if err != nil {
		writeInvalid(w, err)
		return
	}

	link := h.JoinURL(r)
	png, err := qrcode.Encode(link, qrcode.Medium, q.Size)
	if err != nil {
		h.logger.Error("failed to render qr code", slog.String("url", link), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	response.PNG(w, png)
}

// JoinURL is the controller page link encoded in the QR code
func (h *QRHandler) JoinURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + ControlsPath
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + ControlsPath
}

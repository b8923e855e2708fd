package handler

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/tetrisparty/internal/testutil"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		host      string
		https     bool
		forwarded string
		expected  string
	}{
		{name: "configured", publicURL: "https://tetris.example.com/", host: "ignored:1", expected: "https://tetris.example.com/controls"},
		{name: "from host", host: "192.168.1.20:8080", expected: "http://192.168.1.20:8080/controls"},
		{name: "tls", host: "box:443", https: true, expected: "https://box:443/controls"},
		{name: "behind proxy", host: "box", forwarded: "https", expected: "https://box/controls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQRHandler(tt.publicURL, testutil.NopLogger())
			req := httptest.NewRequest("GET", "/api/v1/qr", nil)
			req.Host = tt.host
			if tt.https {
				req.TLS = &tls.ConnectionState{}
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			assert.Equal(t, tt.expected, h.JoinURL(req))
		})
	}
}

package api

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var indexHTML []byte

// handleIndex serves the embedded control panel.
//
// The page is a single self-contained HTML file with no external assets,
// so it stays responsive on a flash-constrained board and works without
// internet access. It talks to the JSON endpoints and the WebSocket
// stream that every other client uses.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(indexHTML)
}

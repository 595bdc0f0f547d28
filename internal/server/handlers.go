package server

import (
	"io"
	"net/http"
	"strings"
)

// handlePreflight answers CORS preflight for the gated routes. The origin
// gate has already validated the Origin header and set the allow headers.
func (h *handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Resume parser is running",
	})
}

// authenticate runs the bearer-token and user-record checks. On failure it
// writes the specific error response and returns ok=false. User-lookup
// failures deliberately answer 401, not 404: existing identifiers must not
// be distinguishable from unknown ones.
func (h *handler) authenticate(w http.ResponseWriter, r *http.Request) (userID string, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusBadRequest, "Authorization header is missing", "")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		writeError(w, http.StatusBadRequest, "Bearer token is missing", "")
		return "", false
	}
	token := strings.TrimSpace(parts[1])

	claims, err := h.deps.Tokens.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token", err.Error())
		return "", false
	}

	if claims.UserID == "" {
		writeError(w, http.StatusBadRequest, "Invalid token payload", "")
		return "", false
	}

	user, err := h.deps.Users.FindByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "User does not exist", "")
		return "", false
	}
	return user.ID, true
}

func (h *handler) handleParseResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Resume file is missing", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file", err.Error())
		return
	}

	result := h.deps.Pipeline.Parse(r.Context(), header.Filename, content)

	// Processing outcomes are always 200; the error-object variant rides
	// inside resumeData. Only the auth gate answers with 4xx.
	writeJSON(w, http.StatusOK, map[string]any{
		"resumeData": result,
		"userId":     userID,
	})
}

func (h *handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Cache.Stats(r.Context()))
}

func (h *handler) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	h.deps.Cache.Clear(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

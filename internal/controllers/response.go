package controllers

import (
	"donwatch/internal/adapters"
	"donwatch/internal/ledger"
	"donwatch/internal/models"
	"donwatch/internal/wallet"
	"donwatch/internal/watch"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

var errBadRequest = errors.New("Bad Request")

type errorResponse struct {
	Error   string                `json:"error"`
	Session *models.SessionStatus `json:"session,omitempty"`
}

// statusFor maps domain errors onto HTTP codes.
func statusFor(err error) int {
	var txErr *wallet.TxError
	switch {
	case errors.As(err, &txErr):
		return http.StatusBadGateway
	case errors.Is(err, adapters.ErrNotConfigured), errors.Is(err, wallet.ErrNoWallet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, watch.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, adapters.ErrUnknownChain),
		errors.Is(err, watch.ErrNegativeAmount),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnsupportedLimit),
		errors.Is(err, ledger.ErrUnsupportedMode),
		errors.Is(err, ledger.ErrTokenRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, err error, session *models.SessionStatus) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Session: session})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

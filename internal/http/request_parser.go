package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"budget/internal/core"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object from the request body into dst.
// Malformed bodies are reported as core.ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body too large", core.ErrInvalidInput)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", core.ErrInvalidInput)
		default:
			return fmt.Errorf("%w: malformed JSON body", core.ErrInvalidInput)
		}
	}
	return nil
}

// transactionRequest is the body of POST /api/transactions. Amount keeps the
// raw literal so both 12.5 and "12.50" parse without float rounding.
type transactionRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
}

func (req transactionRequest) draft() (core.TransactionDraft, error) {
	draft := core.TransactionDraft{
		Category:    sanitizeInput(req.Category),
		Type:        strings.TrimSpace(req.Type),
		Description: sanitizeInput(req.Description),
	}

	amount, err := parseRawAmount(req.Amount)
	if err != nil {
		return core.TransactionDraft{}, err
	}
	draft.Amount = amount

	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return core.TransactionDraft{}, err
		}
		draft.Date = d
	}
	return draft, nil
}

// parseRawAmount returns nil for an absent or null amount.
func parseRawAmount(raw json.RawMessage) (*core.Money, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	literal := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, core.ErrInvalidAmount
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		literal = s
	}

	m, err := core.ParseAmount(literal)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userEmailParam returns the userEmail query parameter, which every
// transaction endpoint requires.
func userEmailParam(r *http.Request) (string, error) {
	email := strings.TrimSpace(r.URL.Query().Get("userEmail"))
	if email == "" {
		return "", core.ErrEmptyEmail
	}
	return email, nil
}

// dateParam parses an optional YYYY-MM-DD query parameter. A missing value
// yields the zero Date.
func dateParam(r *http.Request, name string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrInvalidID
	}
	return id, nil
}

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

func limitParam(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return defaultActivityLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", core.ErrInvalidInput)
	}
	return min(n, maxActivityLimit), nil
}

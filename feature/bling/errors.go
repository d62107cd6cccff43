package bling

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bling-sync/core/walker"
)

// Messages the ERP answers with when it throttles a caller.
const (
	MessageRequestLimit = "O limite de requisições por segundo foi atingido, tente novamente mais tarde."
	MessageHTTPFailure  = "Não foi possível realizar a chamada HTTP: get"
)

// ErrNotFound is returned for 404 answers.
var ErrNotFound = errors.New("resource not found")

// APIError is a non-throttling error answer from the ERP.
type APIError struct {
	Status      int
	Type        string
	Message     string
	Description string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Description != "" {
		return fmt.Sprintf("bling api %d %s: %s (%s)", e.Status, e.Type, msg, e.Description)
	}
	return fmt.Sprintf("bling api %d %s: %s", e.Status, e.Type, msg)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Type        string `json:"type"`
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}

func isRateLimitMessage(msg string) bool {
	msg = strings.TrimSpace(msg)
	return msg == MessageRequestLimit || msg == MessageHTTPFailure
}

// classify turns an error answer into walker.ErrRateLimited or an *APIError.
func classify(status int, env errorEnvelope) error {
	if status == http.StatusTooManyRequests ||
		isRateLimitMessage(env.Error.Message) ||
		isRateLimitMessage(env.Error.Description) {
		return fmt.Errorf("%w: %s", walker.ErrRateLimited, env.Error.Message)
	}
	return &APIError{
		Status:      status,
		Type:        env.Error.Type,
		Message:     env.Error.Message,
		Description: env.Error.Description,
	}
}

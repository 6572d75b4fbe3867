package grid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoTitles           = errors.New("no titles returned from GRID central data")
	ErrTitleNotResolved   = errors.New("could not resolve title id")
	ErrTeamNotResolved    = errors.New("could not resolve team id")
	ErrAllEndpointsFailed = errors.New("all endpoints failed")
	ErrNoData             = errors.New("response has no data")
)

type GQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type GraphQLError struct {
	Errors []GQLError
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "graphql errors: " + strings.Join(msgs, "; ")
}

// RateLimited reports whether any error asks the caller to slow down.
func (e *GraphQLError) RateLimited() bool {
	for _, ge := range e.Errors {
		if ge.Extensions["errorDetail"] == "ENHANCE_YOUR_CALM" || ge.Extensions["errorType"] == "UNAVAILABLE" {
			return true
		}
		if strings.Contains(strings.ToLower(ge.Message), "rate limit") {
			return true
		}
	}
	return false
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

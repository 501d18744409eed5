package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCardNotFound is returned when no card matches the given identifier.
	ErrCardNotFound = errors.New("card not found")
	// ErrRuleNotFound is returned when a rule is not found.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrMalformedEvent is returned when an inbound event lacks required fields.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrInvalidSignature is returned when a webhook signature does not verify.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidRule is returned when rule fields do not match the rule type.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrNetworkAction is returned when the card network rejects or fails an approve/decline call.
	ErrNetworkAction = errors.New("card network action failed")
	// ErrEvaluation is returned when rules could not be evaluated, e.g. spend could not be read.
	// Callers must not treat it as either verdict.
	ErrEvaluation = errors.New("rule evaluation failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return NewHTTPError(http.StatusNotFound, "Card not found in DB", "CARD_NOT_FOUND")
	case errors.Is(err, ErrRuleNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRuleNotFound.Error(), "RULE_NOT_FOUND")
	case errors.Is(err, ErrMalformedEvent):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MALFORMED_EVENT")
	case errors.Is(err, ErrInvalidSignature):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidSignature.Error(), "INVALID_SIGNATURE")
	case errors.Is(err, ErrInvalidRule):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RULE")
	case errors.Is(err, ErrNetworkAction):
		return NewHTTPError(http.StatusBadGateway, ErrNetworkAction.Error(), "NETWORK_ACTION_FAILED")
	case errors.Is(err, ErrEvaluation):
		return NewHTTPError(http.StatusServiceUnavailable, ErrEvaluation.Error(), "EVALUATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

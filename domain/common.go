package domain

import "errors"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageSize = 6
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
)

// Error kinds. Every domain error wraps exactly one of these so the transport
// layer can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrParseUUID      = kindError(ErrValidation, "failed to parse UUID")
	ErrUserNotAllowed = kindError(ErrForbidden, "user not allowed")
	ErrTokenNotFound  = kindError(ErrUnauthorized, "failed to token not found")
	ErrTokenInvalid   = kindError(ErrUnauthorized, "token invalid")
	ErrTokenExpired   = kindError(ErrUnauthorized, "token expired")
	ErrTokenRevoked   = kindError(ErrUnauthorized, "token revoked")
)

// Error carries a human-readable message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func kindError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func NewValidationError(msg string) error {
	return kindError(ErrValidation, msg)
}

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PageRequest struct {
		Page  int
		Limit int
	}
)

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(req PageRequest, total int64) Pagination {
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: (total + int64(req.Limit) - 1) / int64(req.Limit),
	}
}

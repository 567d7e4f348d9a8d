package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrUnknownRouteAction  = errors.New("unknown route action for role")
	ErrForbiddenTransition = errors.New("sample handoff not allowed")
	ErrProductLocked       = errors.New("product locked for routing")
	ErrEmptySelection      = errors.New("no products selected")
	ErrAlreadyInvoiced     = errors.New("product already invoiced")
	ErrMailerNotConfigured = errors.New("email provider is not configured: set MAILER_ADDRESS")
	ErrInvalidAmount       = errors.New("invalid amount")
)

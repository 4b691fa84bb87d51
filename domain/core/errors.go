package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound = errors.New("resource not found")

	// Model resolution errors
	ErrModelSyntax             = errors.New("malformed model expression")
	ErrModelArity              = errors.New("wrong parameter count")
	ErrUnderspecified          = errors.New("underspecified model")
	ErrUnsupportedDistribution = errors.New("unsupported distribution")

	// Invocation errors
	ErrInvocation    = errors.New("invalid invocation")
	ErrSeriesInvalid = errors.New("invalid series")

	// Infrastructure errors
	ErrDatabase      = errors.New("database operation failed")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// Error constructors with context
func NewSyntaxError(detail string) error {
	return fmt.Errorf("%w: %s", ErrModelSyntax, detail)
}

func NewArityError(family string, want, got int) error {
	return fmt.Errorf("%w: %s takes %d parameter(s), got %d", ErrModelArity, family, want, got)
}

func NewUnderspecifiedError(family string, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrUnderspecified, family, detail)
}

func NewUnsupportedDistributionError(family string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedDistribution, family)
}

func NewInvocationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvocation, detail)
}

func NewSeriesError(detail string) error {
	return fmt.Errorf("%w: %s", ErrSeriesInvalid, detail)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewDatabaseError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDatabase, operation, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrModelSyntax)
}

func IsArityError(err error) bool {
	return errors.Is(err, ErrModelArity)
}

func IsUnderspecifiedError(err error) bool {
	return errors.Is(err, ErrUnderspecified)
}

func IsUnsupportedDistributionError(err error) bool {
	return errors.Is(err, ErrUnsupportedDistribution)
}

func IsInvocationError(err error) bool {
	return errors.Is(err, ErrInvocation) ||
		errors.Is(err, ErrSeriesInvalid)
}

func IsSeriesError(err error) bool {
	return errors.Is(err, ErrSeriesInvalid)
}

func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

// IsResolutionError reports whether err came from model parsing or
// resolution rather than from invocation building or infrastructure.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrModelSyntax) ||
		errors.Is(err, ErrModelArity) ||
		errors.Is(err, ErrUnderspecified) ||
		errors.Is(err, ErrUnsupportedDistribution)
}

/*
errors.go - Centralized error types

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation engines never fail; these errors belong to the parameter
  store, the preset factory and the admin API.

ERROR CATEGORIES:
  1. Parameter errors - Unknown keys, range violations, duplicates
  2. Store errors - Missing records
  3. Auth errors - Bad credentials, missing or invalid tokens

USAGE:
  if errors.Is(err, generic.ErrParameterNotFound) {
      writeError(w, http.StatusNotFound, "Calculator parameter not found", err)
  }

SEE ALSO:
  - parameter.go: Produces ParameterRangeError
  - store.go: Store contracts
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrParameterNotFound is returned when a parameter id does not exist.
	ErrParameterNotFound = errors.New("calculator parameter not found")

	// ErrDuplicateParameterKey is returned when a second record uses a key
	// that is already stored.
	ErrDuplicateParameterKey = errors.New("duplicate parameter key")

	// ErrUnknownParameter is returned for keys no calculator registered.
	ErrUnknownParameter = errors.New("unknown parameter key")

	// ErrCategoryMismatch is returned when a record claims the wrong category for its key.
	ErrCategoryMismatch = errors.New("parameter category mismatch")

	// ErrParameterOutOfRange is returned when a value violates the spec bounds.
	ErrParameterOutOfRange = errors.New("parameter value out of range")

	// ErrPresetNotFound is returned when a preset id is not known.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidPreset is returned when a preset file cannot be used.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrInvalidCredentials is returned when admin login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a token is missing, expired or forged.
	ErrUnauthorized = errors.New("could not validate credentials")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParameterRangeError provides details about an out-of-range value.
type ParameterRangeError struct {
	Key   string
	Value decimal.Decimal
	Min   decimal.NullDecimal
	Max   decimal.NullDecimal
}

func (e *ParameterRangeError) Error() string {
	return fmt.Sprintf("parameter %s: value %s outside [%s, %s]",
		e.Key, e.Value, boundString(e.Min, "-inf"), boundString(e.Max, "+inf"))
}

func (e *ParameterRangeError) Unwrap() error {
	return ErrParameterOutOfRange
}

func boundString(b decimal.NullDecimal, open string) string {
	if !b.Valid {
		return open
	}
	return b.Decimal.String()
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownParameter) ||
		errors.Is(err, ErrCategoryMismatch) ||
		errors.Is(err, ErrParameterOutOfRange) ||
		errors.Is(err, ErrInvalidPreset)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateParameterKey)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrParameterNotFound) ||
		errors.Is(err, ErrPresetNotFound)
}

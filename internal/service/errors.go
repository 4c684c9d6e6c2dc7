package service

import (
	"fmt"

	"identity-console/internal/domain"
)

// invalidf builds a validation error that unwraps to domain.ErrInvalidInput.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

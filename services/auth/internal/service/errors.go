package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers every credential or token problem. The
	// wrapped reason is for logs; callers answer with a generic 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
)

func invalidCredentials(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCredentials, reason)
}

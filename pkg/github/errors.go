package github

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrAppIDInvalid         = errors.New("app ID is not a positive integer")
	ErrAppKeyInvalid        = errors.New("app key is not a valid RSA private key")
	ErrListFailed           = errors.New("failed to get list of installations")
	ErrInstallationNotFound = errors.New("failed to find installation")
)

// IdentityError is a configuration error: the App ID or key cannot be used.
type IdentityError struct {
	Kind  error
	AppID string
	Err   error
}

func (e *IdentityError) Error() string {
	if e.Kind == ErrAppIDInvalid {
		return fmt.Sprintf("%v: %q: %v", e.Kind, e.AppID, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *IdentityError) Is(target error) bool { return target == e.Kind }

func (e *IdentityError) Unwrap() error { return e.Err }

// InstallationError reports why no installation could be resolved for Owner.
type InstallationError struct {
	Kind  error
	Owner string
	Err   error
}

func (e *InstallationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v for owner %q: %v", e.Kind, e.Owner, e.Err)
	}
	return fmt.Sprintf("%v for owner %q", e.Kind, e.Owner)
}

func (e *InstallationError) Is(target error) bool { return target == e.Kind }

func (e *InstallationError) Unwrap() error { return e.Err }

// AcquireError wraps any failure while exchanging the App identity for a token.
type AcquireError struct {
	Step string
	Err  error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("failed to acquire installation token: %s: %v", e.Step, e.Err)
}

func (e *AcquireError) Unwrap() error { return e.Err }

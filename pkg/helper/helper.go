// Package helper answers git credential helper requests for a single host,
// serving GitHub App installation tokens through a file cache.
package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/takutakahashi/git-credential-github-app/pkg/credential"
	"github.com/takutakahashi/git-credential-github-app/pkg/gitcredential"
)

// Verb is one of the operations git asks a credential helper to perform.
type Verb string

const (
	VerbGet   Verb = "get"
	VerbStore Verb = "store"
	VerbErase Verb = "erase"
)

var (
	ErrUnknownVerb        = errors.New("unknown credential helper operation")
	ErrMissingCredentials = errors.New("input has no username and password to store")
)

// ParseVerb validates an operation name passed by git.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(s); v {
	case VerbGet, VerbStore, VerbErase:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerb, s)
	}
}

// Cache is the credential store consulted before acquiring a new token.
type Cache interface {
	Read() (*credential.Pair, error)
	Write(creds credential.Pair) error
	Delete() error
}

// TokenSource produces fresh credentials on a cache miss.
type TokenSource interface {
	Acquire(ctx context.Context) (credential.Pair, error)
}

// SourceFunc adapts a function to TokenSource.
type SourceFunc func(ctx context.Context) (credential.Pair, error)

func (f SourceFunc) Acquire(ctx context.Context) (credential.Pair, error) {
	return f(ctx)
}

// Helper dispatches credential helper operations for Protocol://Host.
type Helper struct {
	Cache    Cache
	Source   TokenSource
	Protocol string
	Host     string
	// Out receives the response document for get.
	Out io.Writer
}

// Run reads the request document from in and performs verb. Requests for any
// other host succeed without doing anything.
func (h *Helper) Run(ctx context.Context, verb Verb, in io.Reader) error {
	doc, err := gitcredential.Parse(in)
	if err != nil {
		return fmt.Errorf("failed to parse credential request: %w", err)
	}

	if !doc.MatchesHost(h.Protocol, h.Host) {
		log.Printf("[HELPER] Request is not for %s://%s, ignoring", h.Protocol, h.Host)
		return nil
	}

	log.Printf("[HELPER] Handling %s for %s://%s", verb, h.Protocol, h.Host)
	switch verb {
	case VerbGet:
		return h.get(ctx, doc)
	case VerbStore:
		return h.store(doc)
	case VerbErase:
		return h.erase(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}
}

func (h *Helper) get(ctx context.Context, doc *gitcredential.Document) error {
	creds, err := h.credentials(ctx)
	if err != nil {
		return err
	}
	return doc.WithCredentials(creds).WithQuit(true).Write(h.Out)
}

// credentials returns cached credentials, acquiring and caching new ones on a miss.
func (h *Helper) credentials(ctx context.Context) (credential.Pair, error) {
	cached, err := h.Cache.Read()
	if err != nil {
		return credential.Pair{}, err
	}
	if cached != nil {
		log.Printf("[HELPER] Current credentials are still valid")
		return *cached, nil
	}

	log.Printf("[HELPER] New credentials must be generated")
	creds, err := h.Source.Acquire(ctx)
	if err != nil {
		return credential.Pair{}, err
	}
	if err := h.Cache.Write(creds); err != nil {
		return credential.Pair{}, err
	}
	return creds, nil
}

func (h *Helper) store(doc *gitcredential.Document) error {
	creds, ok := doc.Credentials()
	if !ok {
		return ErrMissingCredentials
	}
	return h.Cache.Write(creds)
}

func (h *Helper) erase(doc *gitcredential.Document) error {
	cached, err := h.Cache.Read()
	if err != nil {
		return err
	}
	if cached == nil || !doc.MatchesCredentials(*cached) {
		log.Printf("[HELPER] Presented credentials do not match the cache, nothing to erase")
		return nil
	}
	return h.Cache.Delete()
}

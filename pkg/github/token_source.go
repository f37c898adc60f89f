package github

import (
	"context"
	"errors"
	"log"
	"net/http"

	ghinstallation "github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v57/github"

	"github.com/takutakahashi/git-credential-github-app/pkg/credential"
)

// Acquisition steps reported by AcquireError.
const (
	StepClient       = "create GitHub App client"
	StepInstallation = "find installation"
	StepToken        = "create installation token"
)

var errEmptyToken = errors.New("GitHub returned an empty installation token")

// TokenSource exchanges a GitHub App identity for an installation token of
// the installation owned by Owner.
type TokenSource struct {
	Identity *AppIdentity
	Owner    string
	// APIBase is the REST API root; empty means api.github.com.
	APIBase string
	// Transport is the base round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Acquire performs the exchange. Nothing is retried.
func (s *TokenSource) Acquire(ctx context.Context) (credential.Pair, error) {
	base := s.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	transport := ghinstallation.NewAppsTransportFromPrivateKey(base, s.Identity.ID, s.Identity.Key)
	if s.APIBase != "" && s.APIBase != DefaultAPIBase {
		transport.BaseURL = s.APIBase
	}

	client, err := NewClient(&http.Client{Transport: transport}, s.APIBase)
	if err != nil {
		return credential.Pair{}, &AcquireError{Step: StepClient, Err: err}
	}

	installation, err := FindInstallation(ctx, client.Apps, s.Owner)
	if err != nil {
		return credential.Pair{}, &AcquireError{Step: StepInstallation, Err: err}
	}

	log.Printf("[TOKEN] Requesting installation token for installation %d", installation.GetID())
	token, _, err := client.Apps.CreateInstallationToken(ctx, installation.GetID(), &github.InstallationTokenOptions{})
	if err != nil {
		return credential.Pair{}, &AcquireError{Step: StepToken, Err: err}
	}
	if token.GetToken() == "" {
		return credential.Pair{}, &AcquireError{Step: StepToken, Err: errEmptyToken}
	}

	log.Printf("[TOKEN] Installation token expires at %s", token.GetExpiresAt())
	return credential.Pair{
		Username: s.Identity.Username(),
		Password: token.GetToken(),
	}, nil
}

package github

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
)

const (
	// DefaultAPIBase is the public GitHub REST API.
	DefaultAPIBase = "https://api.github.com"
	// DefaultGitHubURL is the public GitHub web host git talks to.
	DefaultGitHubURL = "https://github.com"
)

// NewClient creates a go-github client for apiBase, switching to enterprise
// URLs when apiBase is not the public API.
func NewClient(httpClient *http.Client, apiBase string) (*github.Client, error) {
	if apiBase == "" || strings.Contains(apiBase, DefaultAPIBase) {
		return github.NewClient(httpClient), nil
	}

	client, err := github.NewClient(httpClient).WithEnterpriseURLs(apiBase, apiBase)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Enterprise client: %w", err)
	}
	return client, nil
}

// ParseTarget splits a GitHub web URL such as "https://github.com" into the
// protocol and host git reports to credential helpers.
func ParseTarget(githubURL string) (protocol, host string, err error) {
	protocol, rest, ok := strings.Cut(githubURL, "://")
	if !ok || protocol == "" {
		return "", "", fmt.Errorf("GitHub URL %q has no scheme", githubURL)
	}

	host = rest
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if host == "" {
		return "", "", fmt.Errorf("GitHub URL %q has no host", githubURL)
	}
	return protocol, host, nil
}

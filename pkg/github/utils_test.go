package github

import (
	"net/http"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name             string
		url              string
		expectedProtocol string
		expectedHost     string
		expectError      bool
	}{
		{
			name:             "Public GitHub",
			url:              "https://github.com",
			expectedProtocol: "https",
			expectedHost:     "github.com",
		},
		{
			name:             "Trailing slash",
			url:              "https://github.com/",
			expectedProtocol: "https",
			expectedHost:     "github.com",
		},
		{
			name:             "Enterprise with path",
			url:              "http://github.enterprise.com/some/path",
			expectedProtocol: "http",
			expectedHost:     "github.enterprise.com",
		},
		{
			name:             "Host with port",
			url:              "https://github.enterprise.com:8443",
			expectedProtocol: "https",
			expectedHost:     "github.enterprise.com:8443",
		},
		{
			name:        "URL without protocol",
			url:         "github.com",
			expectError: true,
		},
		{
			name:        "URL without host",
			url:         "https://",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			protocol, host, err := ParseTarget(tt.url)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseTarget(%q) expected error", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) unexpected error: %v", tt.url, err)
			}
			if protocol != tt.expectedProtocol || host != tt.expectedHost {
				t.Errorf("ParseTarget(%q) = (%q, %q), expected (%q, %q)", tt.url, protocol, host, tt.expectedProtocol, tt.expectedHost)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name            string
		apiBase         string
		expectedBaseURL string
	}{
		{
			name:            "Default API",
			apiBase:         "",
			expectedBaseURL: "https://api.github.com/",
		},
		{
			name:            "Explicit public API",
			apiBase:         DefaultAPIBase,
			expectedBaseURL: "https://api.github.com/",
		},
		{
			name:            "Enterprise API",
			apiBase:         "https://github.enterprise.com",
			expectedBaseURL: "https://github.enterprise.com/api/v3/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(&http.Client{}, tt.apiBase)
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}
			if client.BaseURL.String() != tt.expectedBaseURL {
				t.Errorf("BaseURL = %q, expected %q", client.BaseURL.String(), tt.expectedBaseURL)
			}
		})
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/takutakahashi/git-credential-github-app/pkg/cache"
	"github.com/takutakahashi/git-credential-github-app/pkg/config"
	"github.com/takutakahashi/git-credential-github-app/pkg/credential"
	"github.com/takutakahashi/git-credential-github-app/pkg/github"
	"github.com/takutakahashi/git-credential-github-app/pkg/helper"
)

var (
	cfgFile string
	verbose bool
)

const credentialLong = `%s

Reads a credential description from stdin in git's key=value format.
Only requests for the configured GitHub host are handled; anything else is ignored.

Environment:
- GITHUB_APP_ID: GitHub App ID (required to generate tokens)
- GITHUB_APP_KEY: PEM encoded App private key (or GITHUB_APP_KEY_PATH / GITHUB_APP_PEM_PATH)
- GITHUB_APP_OWNER: account whose installation is used
- GITHUB_API: GitHub API base URL (defaults to https://api.github.com)
- GITHUB_URL: GitHub base URL (defaults to https://github.com)
- GIT_CREDENTIAL_GITHUB_APP_CACHE_FILE: credentials cache location
- GIT_CREDENTIAL_GITHUB_APP_VERBOSE: log to stderr
`

// GetCmd prints cached or freshly generated installation credentials.
var GetCmd = newCredentialCmd(helper.VerbGet, "Return credentials for the configured GitHub host")

// StoreCmd caches the credentials git reports as working.
var StoreCmd = newCredentialCmd(helper.VerbStore, "Cache credentials reported as valid by git")

// EraseCmd drops cached credentials that git reports as rejected.
var EraseCmd = newCredentialCmd(helper.VerbErase, "Remove cached credentials rejected by git")

func newCredentialCmd(verb helper.Verb, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   string(verb),
		Short: short,
		Long:  fmt.Sprintf(credentialLong, short),
		Args:  cobra.NoArgs,
		RunE:  runCredential,
		// stdout carries the protocol response only
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.Flags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (json, yaml or toml)")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	return c
}

func runCredential(cmd *cobra.Command, args []string) error {
	setupLogging(cmd.ErrOrStderr(), verbose)

	verb, err := helper.ParseVerb(cmd.Name())
	if err != nil {
		return err
	}

	v := config.NewViper()
	if err := v.BindPFlag("verbose", cmd.Flags().Lookup("verbose")); err != nil {
		return fmt.Errorf("failed to bind verbose flag: %w", err)
	}
	cfg, err := config.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	setupLogging(cmd.ErrOrStderr(), cfg.Verbose)

	protocol, host, err := cfg.Target()
	if err != nil {
		return fmt.Errorf("invalid GITHUB_URL: %w", err)
	}

	h := &helper.Helper{
		Cache:    cache.New(cfg.CacheFile),
		Source:   newTokenSource(cfg),
		Protocol: protocol,
		Host:     host,
		Out:      cmd.OutOrStdout(),
	}
	return h.Run(cmd.Context(), verb, cmd.InOrStdin())
}

// newTokenSource defers reading the App credentials until a token is actually
// needed, so cache hits and store/erase work without them.
func newTokenSource(cfg *config.Config) helper.TokenSource {
	return helper.SourceFunc(func(ctx context.Context) (credential.Pair, error) {
		appID, appKey, err := cfg.AppCredentials()
		if err != nil {
			return credential.Pair{}, fmt.Errorf("invalid GitHub App configuration: %w", err)
		}
		identity, err := github.LoadAppIdentity(appID, appKey)
		if err != nil {
			return credential.Pair{}, fmt.Errorf("invalid GitHub App configuration: %w", err)
		}

		source := &github.TokenSource{
			Identity: identity,
			Owner:    cfg.Owner,
			APIBase:  cfg.APIBase,
		}
		return source.Acquire(ctx)
	})
}

// setupLogging keeps stderr quiet unless verbose; stdout belongs to git.
func setupLogging(stderr io.Writer, verbose bool) {
	if !verbose {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/takutakahashi/git-credential-github-app/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "git-credential-github-app",
	Short: "Git credential helper backed by GitHub App installation tokens",
	Long: `A git credential helper that authenticates as a GitHub App and hands git
short-lived installation access tokens, caching them between invocations.

Configure it with:
  git config --global credential.https://github.com.helper github-app`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cmd.GetCmd)
	rootCmd.AddCommand(cmd.StoreCmd)
	rootCmd.AddCommand(cmd.EraseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "git-credential-github-app: %v\n", err)
		os.Exit(1)
	}
}

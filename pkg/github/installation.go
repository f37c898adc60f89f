package github

import (
	"context"
	"log"

	"github.com/google/go-github/v57/github"
)

const installationsPerPage = 100

// InstallationLister lists the installations of the authenticated App.
// *github.AppsService satisfies it.
type InstallationLister interface {
	ListInstallations(ctx context.Context, opts *github.ListOptions) ([]*github.Installation, *github.Response, error)
}

// FindInstallation walks the App's installations until it finds the one whose
// account login equals owner exactly. The number of pages is fixed by the
// first response, so a misbehaving server cannot keep the walk going.
func FindInstallation(ctx context.Context, lister InstallationLister, owner string) (*github.Installation, error) {
	totalPages := 1
	for page := 0; page < totalPages; page++ {
		installations, resp, err := lister.ListInstallations(ctx, &github.ListOptions{
			Page:    page + 1,
			PerPage: installationsPerPage,
		})
		if err != nil {
			return nil, &InstallationError{Kind: ErrListFailed, Owner: owner, Err: err}
		}
		log.Printf("[INSTALLATION] Current page of installations: %d (%d entries)", page, len(installations))

		for _, installation := range installations {
			if installation.GetAccount().GetLogin() == owner {
				log.Printf("[INSTALLATION] Found installation %d for %s", installation.GetID(), owner)
				return installation, nil
			}
		}

		if page == 0 && resp != nil && resp.LastPage > totalPages {
			totalPages = resp.LastPage
			log.Printf("[INSTALLATION] Total pages of installations: %d", totalPages)
		}
	}

	return nil, &InstallationError{Kind: ErrInstallationNotFound, Owner: owner}
}

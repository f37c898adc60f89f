package github

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	pages     [][]*github.Installation
	lastPage  int
	failOn    int
	requested []int
}

func (f *fakeLister) ListInstallations(ctx context.Context, opts *github.ListOptions) ([]*github.Installation, *github.Response, error) {
	f.requested = append(f.requested, opts.Page)
	if f.failOn != 0 && opts.Page == f.failOn {
		return nil, nil, errors.New("502 bad gateway")
	}

	resp := &github.Response{}
	if opts.Page < f.lastPage {
		resp.NextPage = opts.Page + 1
		resp.LastPage = f.lastPage
	}
	if opts.Page-1 >= len(f.pages) {
		return nil, resp, nil
	}
	return f.pages[opts.Page-1], resp, nil
}

func installation(id int64, login string) *github.Installation {
	return &github.Installation{
		ID:      github.Int64(id),
		Account: &github.User{Login: github.String(login)},
	}
}

func TestFindInstallationFirstPage(t *testing.T) {
	lister := &fakeLister{
		pages: [][]*github.Installation{
			{installation(1, "someone"), installation(2, "BrainiumLLC"), installation(3, "BrainiumLLC")},
			{installation(4, "other")},
		},
		lastPage: 2,
	}

	found, err := FindInstallation(context.Background(), lister, "BrainiumLLC")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.GetID())
	assert.Equal(t, []int{1}, lister.requested)
}

func TestFindInstallationLaterPage(t *testing.T) {
	lister := &fakeLister{
		pages: [][]*github.Installation{
			{installation(1, "a")},
			{installation(2, "b")},
			{installation(3, "target")},
		},
		lastPage: 3,
	}

	found, err := FindInstallation(context.Background(), lister, "target")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.GetID())
	assert.Equal(t, []int{1, 2, 3}, lister.requested)
}

func TestFindInstallationNotFound(t *testing.T) {
	lister := &fakeLister{
		pages: [][]*github.Installation{
			{installation(1, "a")},
			{installation(2, "b")},
		},
		lastPage: 2,
	}

	found, err := FindInstallation(context.Background(), lister, "target")
	assert.Nil(t, found)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstallationNotFound)
	assert.NotErrorIs(t, err, ErrListFailed)
	assert.Contains(t, err.Error(), `"target"`)
	assert.Equal(t, []int{1, 2}, lister.requested)
}

func TestFindInstallationCaseSensitive(t *testing.T) {
	lister := &fakeLister{
		pages: [][]*github.Installation{{installation(1, "brainiumllc")}},
	}

	_, err := FindInstallation(context.Background(), lister, "BrainiumLLC")
	assert.ErrorIs(t, err, ErrInstallationNotFound)
}

func TestFindInstallationEmptyListing(t *testing.T) {
	lister := &fakeLister{}

	_, err := FindInstallation(context.Background(), lister, "target")
	assert.ErrorIs(t, err, ErrInstallationNotFound)
	assert.Equal(t, []int{1}, lister.requested)
}

func TestFindInstallationListFailure(t *testing.T) {
	lister := &fakeLister{
		pages: [][]*github.Installation{
			{installation(1, "a")},
			{installation(2, "target")},
		},
		lastPage: 2,
		failOn:   2,
	}

	_, err := FindInstallation(context.Background(), lister, "target")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListFailed)
	assert.NotErrorIs(t, err, ErrInstallationNotFound)
	assert.Contains(t, err.Error(), "502 bad gateway")
}

// A server that keeps reporting more pages after the first response cannot
// extend the walk beyond the page count it announced up front.
type growingLister struct {
	requested int
}

func (g *growingLister) ListInstallations(ctx context.Context, opts *github.ListOptions) ([]*github.Installation, *github.Response, error) {
	g.requested++
	return []*github.Installation{installation(int64(opts.Page), "other")}, &github.Response{LastPage: opts.Page + 5}, nil
}

func TestFindInstallationBoundedByFirstPage(t *testing.T) {
	lister := &growingLister{}

	_, err := FindInstallation(context.Background(), lister, "target")
	assert.ErrorIs(t, err, ErrInstallationNotFound)
	assert.Equal(t, 6, lister.requested)
}

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/takutakahashi/git-credential-github-app/pkg/credential"
	"github.com/takutakahashi/git-credential-github-app/pkg/utils"
)

// MaxTokenAge is how long cached credentials are trusted. Installation tokens
// expire after 60 minutes; the margin keeps a token from expiring mid-fetch.
const MaxTokenAge = 45 * time.Minute

// Namespace is the directory under the system temp dir holding the cache file.
const Namespace = "com.github.takutakahashi.git-credential-github-app"

const fileName = "creds.json"

// DefaultPath returns the cache file location used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), Namespace, fileName)
}

// Cache stores a single credential pair in a JSON file. Freshness is judged by
// the file's modification time. There is no locking between processes.
type Cache struct {
	path string
	now  func() time.Time
}

// New creates a cache backed by the file at path.
func New(path string) *Cache {
	return NewWithClock(path, time.Now)
}

// NewWithClock creates a cache that measures file age against now.
func NewWithClock(path string, now func() time.Time) *Cache {
	return &Cache{
		path: path,
		now:  now,
	}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Stale reports whether the cached credentials must be regenerated. A missing
// file is stale.
func (c *Cache) Stale() (bool, error) {
	log.Printf("[CACHE] Checking credentials file at %s", c.path)
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[CACHE] No credentials file currently exists")
		return true, nil
	}
	if err != nil {
		return false, &Error{Kind: ErrStatFailed, Path: c.path, Err: err}
	}
	if !info.Mode().IsRegular() {
		log.Printf("[CACHE] %s is not a regular file, treating as absent", c.path)
		return true, nil
	}

	age := c.now().Sub(info.ModTime())
	if age < 0 {
		return false, &Error{
			Kind: ErrElapsedFailed,
			Path: c.path,
			Err:  fmt.Errorf("modification time %s is %s in the future", info.ModTime().Format(time.RFC3339), -age),
		}
	}

	log.Printf("[CACHE] Current credentials file is %d minutes old", int(age.Minutes()))
	return age >= MaxTokenAge, nil
}

// Read returns the cached credentials, or nil if the cache is absent or stale.
func (c *Cache) Read() (*credential.Pair, error) {
	stale, err := c.Stale()
	if err != nil {
		return nil, err
	}
	if stale {
		return nil, nil
	}

	log.Printf("[CACHE] Reading credentials file at %s", c.path)
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, &Error{Kind: ErrReadFailed, Path: c.path, Err: err}
	}

	var creds credential.Pair
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, &Error{Kind: ErrDeserializeFailed, Path: c.path, Err: err}
	}
	return &creds, nil
}

// Write replaces the cached credentials, creating the cache directory if needed.
func (c *Cache) Write(creds credential.Pair) error {
	log.Printf("[CACHE] Updating credentials file at %s", c.path)
	dir := filepath.Dir(c.path)
	if err := utils.EnsureDir(dir, 0700); err != nil {
		return &Error{Kind: ErrCreateDirFailed, Path: dir, Err: err}
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return &Error{Kind: ErrSerializeFailed, Path: c.path, Err: err}
	}

	if err := utils.AtomicWriteFile(c.path, data, 0600); err != nil {
		return &Error{Kind: ErrWriteFailed, Path: c.path, Err: err}
	}
	return nil
}

// Delete removes the cache file. A missing file is not an error, and
// anything other than a regular file at the path is left alone.
func (c *Cache) Delete() error {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &Error{Kind: ErrDeleteFailed, Path: c.path, Err: err}
	}
	if !info.Mode().IsRegular() {
		log.Printf("[CACHE] %s is not a regular file, nothing to delete", c.path)
		return nil
	}

	log.Printf("[CACHE] Deleting credentials file at %s", c.path)
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: ErrDeleteFailed, Path: c.path, Err: err}
	}
	return nil
}

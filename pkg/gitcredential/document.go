// Package gitcredential implements the key=value document exchanged with git
// by credential helpers. See https://git-scm.com/docs/git-credential#IOFMT.
package gitcredential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/takutakahashi/git-credential-github-app/pkg/credential"
)

// Field names in the order they are serialized.
const (
	KeyProtocol = "protocol"
	KeyHost     = "host"
	KeyPath     = "path"
	KeyUsername = "username"
	KeyPassword = "password"
	KeyURL      = "url"
	KeyQuit     = "quit"
)

const maxLineSize = 1024 * 1024

// Document is a credential description as read from or written to git.
// Every field is optional; unset fields are omitted on output.
type Document struct {
	Protocol *string
	Host     *string
	Path     *string
	Username *string
	Password *string
	URL      *string
	Quit     *bool
}

// Parse reads key=value lines until EOF. Empty lines are ignored; a line
// without "=" or with an unknown key aborts the whole read.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := doc.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ReadError{Kind: ErrReadFailed, Err: err}
	}

	log.Printf("[DOC] Parsed input: %s", doc.Redacted().summary())
	return doc, nil
}

func (d *Document) parseLine(line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return &ReadError{Kind: ErrDelimiterMissing, Line: line}
	}

	switch key {
	case KeyProtocol:
		d.Protocol = &value
	case KeyHost:
		d.Host = &value
	case KeyPath:
		d.Path = &value
	case KeyUsername:
		d.Username = &value
	case KeyPassword:
		d.Password = &value
	case KeyURL:
		d.URL = &value
	case KeyQuit:
		quit, err := strconv.ParseBool(value)
		if err != nil {
			return &ReadError{Kind: ErrValueInvalid, Line: line, Err: err}
		}
		d.Quit = &quit
	default:
		return &ReadError{Kind: ErrKeyInvalid, Line: key}
	}
	return nil
}

// protocolHost returns the effective (protocol, host) pair. A url field takes
// precedence over the separate protocol and host fields; its host ends at the
// first "/" after the scheme separator.
func (d *Document) protocolHost() (string, string, bool) {
	if d.URL != nil {
		protocol, rest, ok := strings.Cut(*d.URL, "://")
		if !ok {
			return "", "", false
		}
		host, _, _ := strings.Cut(rest, "/")
		return protocol, host, true
	}
	if d.Protocol == nil || d.Host == nil {
		return "", "", false
	}
	return *d.Protocol, *d.Host, true
}

// MatchesHost reports whether the document targets exactly protocol://host.
func (d *Document) MatchesHost(protocol, host string) bool {
	p, h, ok := d.protocolHost()
	return ok && p == protocol && h == host
}

// Credentials returns the username/password pair if both are set.
func (d *Document) Credentials() (credential.Pair, bool) {
	if d.Username == nil || d.Password == nil {
		return credential.Pair{}, false
	}
	return credential.Pair{Username: *d.Username, Password: *d.Password}, true
}

// MatchesCredentials reports whether the document carries exactly creds.
func (d *Document) MatchesCredentials(creds credential.Pair) bool {
	own, ok := d.Credentials()
	return ok && own.Equal(creds)
}

// WithCredentials returns a copy of d carrying creds.
func (d *Document) WithCredentials(creds credential.Pair) *Document {
	next := *d
	next.Username = &creds.Username
	next.Password = &creds.Password
	return &next
}

// WithQuit returns a copy of d with the quit flag set.
func (d *Document) WithQuit(quit bool) *Document {
	next := *d
	next.Quit = &quit
	return &next
}

// Redacted returns a copy of d that is safe to log.
func (d *Document) Redacted() *Document {
	next := *d
	if next.Password != nil {
		masked := "<redacted>"
		next.Password = &masked
	}
	return &next
}

// String renders the document in wire format: one key=value line per set
// field, in the fixed field order.
func (d *Document) String() string {
	var b strings.Builder
	writeField := func(key string, value *string) {
		if value != nil {
			fmt.Fprintf(&b, "%s=%s\n", key, *value)
		}
	}
	writeField(KeyProtocol, d.Protocol)
	writeField(KeyHost, d.Host)
	writeField(KeyPath, d.Path)
	writeField(KeyUsername, d.Username)
	writeField(KeyPassword, d.Password)
	writeField(KeyURL, d.URL)
	if d.Quit != nil {
		fmt.Fprintf(&b, "%s=%t\n", KeyQuit, *d.Quit)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d *Document) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Write serializes the document to w and flushes it.
func (d *Document) Write(w io.Writer) error {
	buf := bufio.NewWriter(w)
	if _, err := buf.WriteString(d.String()); err != nil {
		return &WriteError{Kind: ErrWriteFailed, Err: err}
	}
	if err := buf.Flush(); err != nil {
		return &WriteError{Kind: ErrFlushFailed, Err: err}
	}
	return nil
}

func (d *Document) summary() string {
	return strconv.Quote(strings.TrimSuffix(d.String(), "\n"))
}

// Error kinds. Match with errors.Is.
var (
	ErrReadFailed       = errors.New("failed to read line from input")
	ErrDelimiterMissing = errors.New("input line missing `=` delimiter")
	ErrKeyInvalid       = errors.New("input line has an invalid key")
	ErrValueInvalid     = errors.New("input line has an invalid value")
	ErrWriteFailed      = errors.New("failed to write output")
	ErrFlushFailed      = errors.New("failed to flush output")
)

// ReadError is returned by Parse.
type ReadError struct {
	Kind error
	// Line is the offending line, or the offending key for ErrKeyInvalid.
	Line string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Err != nil {
		if e.Line != "" {
			return fmt.Sprintf("%v %q: %v", e.Kind, e.Line, e.Err)
		}
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Line)
}

func (e *ReadError) Is(target error) bool { return target == e.Kind }

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned by Write.
type WriteError struct {
	Kind error
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("%v: %v", e.Kind, e.Err) }

func (e *WriteError) Is(target error) bool { return target == e.Kind }

func (e *WriteError) Unwrap() error { return e.Err }

// Package plex asks a Plex Media Server to re-index the .strm library after
// a sync changed it.
package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is a non-200 reply from Plex.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("plex %s: status %d", e.Path, e.Code)
}

// Client is a minimal Plex API client covering identity, sections and
// section refreshes.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger

	// Set when Plex sees the library under another prefix, e.g. in a container.
	localPrefix  string
	remotePrefix string
}

// Option configures a Client.
type Option func(*Client)

// WithPathMapping maps the local library prefix to the prefix Plex uses.
func WithPathMapping(local, remote string) Option {
	return func(c *Client) {
		c.localPrefix = strings.TrimRight(local, "/")
		c.remotePrefix = strings.TrimRight(remote, "/")
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.With("component", "plex"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToRemote rewrites a local path into the path Plex knows it by. Paths
// outside the mapped prefix are returned unchanged.
func (c *Client) ToRemote(path string) string {
	if c.localPrefix == "" || c.remotePrefix == "" {
		return path
	}
	rest, ok := strings.CutPrefix(path, c.localPrefix)
	if !ok || (rest != "" && rest[0] != '/') {
		return path
	}
	return c.remotePrefix + rest
}

// Identity is the server's self-description.
type Identity struct {
	Name    string `xml:"friendlyName,attr"`
	Version string `xml:"version,attr"`
}

// Section is one library section with the folders it indexes.
type Section struct {
	Key       string     `xml:"key,attr"`
	Title     string     `xml:"title,attr"`
	Type      string     `xml:"type,attr"`
	ScannedAt int64      `xml:"scannedAt,attr"`
	Refreshes int        `xml:"refreshing,attr"`
	Locations []Location `xml:"Location"`
}

// Refreshing reports whether Plex is already scanning the section.
func (s Section) Refreshing() bool { return s.Refreshes == 1 }

// Location is a folder indexed by a section.
type Location struct {
	Path string `xml:"path,attr"`
}

// Identity fetches the server name and version. It doubles as a token check.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, "/", &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Sections lists the library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var body struct {
		Sections []Section `xml:"Directory"`
	}
	if err := c.do(ctx, "/library/sections", &body); err != nil {
		return nil, err
	}
	return body.Sections, nil
}

// RefreshLibrary starts a scan of a whole section. Plex answers as soon as
// the scan is queued.
func (c *Client) RefreshLibrary(ctx context.Context, sectionKey string) error {
	start := time.Now()
	if err := c.do(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/refresh", nil); err != nil {
		return err
	}
	c.log.Debug("refresh queued", "section", sectionKey, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// do issues a GET and decodes the XML body into out when out is non-nil.
func (c *Client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plex %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

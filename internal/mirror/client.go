// Package mirror pushes the serialized catalog document to a file in a
// GitHub repository through the Contents API.
//
// The protocol is a two-step read-modify-write with no locking: fetch the
// blob's current sha, then update with that sha, or create when the blob
// does not exist yet. Two independent processes racing through this
// sequence can lose one writer's update (last successful write wins).
// That is accepted for the single-user design target; every failure here
// is a warning to the caller and the local document stays authoritative.
package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/starford/kamado/internal/apperr"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultTimeout = 10 * time.Second
)

// Syncer is the interface the catalog store pushes through.
type Syncer interface {
	Push(ctx context.Context, content []byte) error
}

// Options configures the GitHub mirror client.
type Options struct {
	Owner      string
	Repo       string
	Branch     string
	Path       string // file path inside the repository
	Token      string
	APIBase    string        // defaults to the public GitHub API
	Timeout    time.Duration // HTTP client deadline, defaults to 10s
	HTTPClient *http.Client  // overrides Timeout when set
}

// Client mirrors the catalog document to a single repository file.
type Client struct {
	owner  string
	repo   string
	branch string
	path   string
	token  string
	base   string
	http   *http.Client
}

// New creates a mirror client for the configured repository file.
func New(opts Options) *Client {
	base := opts.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		owner:  opts.Owner,
		repo:   opts.Repo,
		branch: opts.Branch,
		path:   opts.Path,
		token:  opts.Token,
		base:   base,
		http:   httpClient,
	}
}

// Push uploads content, creating the remote file when it does not exist
// yet and updating it with the fetched sha otherwise. A stale sha (a
// concurrent writer changed the blob since the fetch) is reported as
// apperr.ErrRemoteConflict and is not retried.
func (c *Client) Push(ctx context.Context, content []byte) error {
	sha, err := c.fetchSHA(ctx)
	if err != nil {
		return err
	}
	return c.upload(ctx, content, sha)
}

// fetchSHA returns the current content sha of the remote file, or the
// empty string when the file does not exist on the configured branch.
func (c *Client) fetchSHA(ctx context.Context) (string, error) {
	u := c.contentsURL() + "?ref=" + url.QueryEscape(c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("mirror: build metadata request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mirror: fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("mirror: fetch metadata for %s: status %d", c.path, resp.StatusCode)
	}

	var meta struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("mirror: decode metadata: %w", err)
	}
	return meta.SHA, nil
}

func (c *Client) upload(ctx context.Context, content []byte, sha string) error {
	message := "Create catalog"
	if sha != "" {
		message = "Update catalog"
	}
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  c.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mirror: encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mirror: build upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mirror: upload: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// Stale sha: another writer updated the blob since our fetch.
		return fmt.Errorf("mirror: upload %s: %w", c.path, apperr.ErrRemoteConflict)
	default:
		return fmt.Errorf("mirror: upload %s: status %d", c.path, resp.StatusCode)
	}
}

func (c *Client) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.base, c.owner, c.repo, c.path)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// Package runtimeversion reports the current AMP runtime release by
// querying the release metadata endpoint of an AMP framework host.
package runtimeversion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// defaultHost serves release metadata when no prefix is given.
const defaultHost = "https://cdn.ampproject.org"

// metadataPath is appended to the host to reach the release metadata.
const metadataPath = "/rtv/metadata"

// Fetcher is the HTTP capability the client consumes.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// metadata mirrors the fields of the rtv metadata document we care about.
type metadata struct {
	AmpRuntimeVersion string `json:"ampRuntimeVersion"`
	LtsRuntimeVersion string `json:"ltsRuntimeVersion"`
}

// Client resolves the current runtime version for a host.
type Client struct {
	fetch Fetcher
}

// NewClient creates a Client.
func NewClient(fetch Fetcher) *Client {
	return &Client{fetch: fetch}
}

// CurrentVersion returns the latest release published by ampURLPrefix
// (the canonical CDN when empty). With lts set, the long-term-support
// release is returned instead; not every host publishes one.
func (c *Client) CurrentVersion(ctx context.Context, ampURLPrefix string, lts bool) (string, error) {
	host := ampURLPrefix
	if host == "" {
		host = defaultHost
	}
	url := strings.TrimSuffix(host, "/") + metadataPath

	resp, err := c.fetch.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching runtime metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected HTTP status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading runtime metadata: %w", err)
	}

	var md metadata
	if err := json.Unmarshal(body, &md); err != nil {
		return "", fmt.Errorf("parsing runtime metadata from %s: %w", url, err)
	}

	if lts {
		if md.LtsRuntimeVersion == "" {
			return "", fmt.Errorf("no LTS runtime version published by %s", host)
		}
		return md.LtsRuntimeVersion, nil
	}
	if md.AmpRuntimeVersion == "" {
		return "", fmt.Errorf("no runtime version published by %s", host)
	}
	return md.AmpRuntimeVersion, nil
}

// Package fetcher downloads web pages for anchor discovery and website
// email scans, with per-host rate limiting and retry.
package fetcher

import (
	"context"
)

// Fetcher downloads a page and returns its raw HTML.
type Fetcher interface {
	// Page fetches the URL. Non-2xx terminal statuses return an error;
	// callers in the discovery path treat any error as "skip this page".
	Page(ctx context.Context, url string) (string, error)
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Entry is what the shared catalog knows about a barcode: a suggested
// name, contributed by whoever registered it first. Expiry dates are
// personal and never leave the device.
type Entry struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Client talks to the shared product catalog keyed by barcode. The
// whole collaborator is best-effort: lookups that fail return nothing,
// contributions that fail are dropped. Nothing here may ever block a
// save or surface as a user-facing error.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a catalog client, or a disabled one when baseURL is
// empty (no catalog configured).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether a catalog endpoint is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Lookup asks the catalog for a barcode. A miss, a disabled client and
// any transport failure all come back as (nil, nil).
func (c *Client) Lookup(ctx context.Context, barcode string) (*Entry, error) {
	if !c.Enabled() || barcode == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("catalog: lookup %s failed: %v", barcode, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("catalog: lookup %s returned %s", barcode, resp.Status)
		return nil, nil
	}

	var entry Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		log.Printf("catalog: lookup %s bad payload: %v", barcode, err)
		return nil, nil
	}
	if entry.Name == "" {
		return nil, nil
	}
	return &entry, nil
}

// Contribute publishes a barcode-to-name mapping so other users get
// prefill for it too. Fire-and-forget: errors are logged and swallowed.
func (c *Client) Contribute(ctx context.Context, barcode, name string) {
	if !c.Enabled() || barcode == "" || name == "" {
		return
	}

	body, err := json.Marshal(Entry{Barcode: barcode, Name: name})
	if err != nil {
		return
	}

	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("catalog: contribute %s failed: %v", barcode, err)
		return
	}
	resp.Body.Close()
}

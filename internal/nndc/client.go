// Package nndc fetches adopted excitation levels for a nuclide from the
// NNDC NuDat service and parses them out of the returned HTML page.
//
// This is the network half of the excitation-source collaborator; the
// kinematics engine itself never touches it. Callers that want caching wrap
// the client in a levelcache.Source.
package nndc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the NuDat classic-dataset endpoint.
const DefaultBaseURL = "https://www.nndc.bnl.gov/nudat3/getdatasetClassic.jsp"

// DefaultTimeout bounds a single NuDat request.
const DefaultTimeout = 30 * time.Second

// Client fetches excitation levels for an isotope label such as "13C".
type Client struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string

	// HTTPClient overrides the default client. A nil value gets a client
	// with DefaultTimeout.
	HTTPClient *http.Client
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// Levels fetches and parses the adopted levels for isotope, in MeV. A fetch
// or parse failure is an explicit error; a nucleus with no tabulated levels
// yields an empty slice and no error.
func (c *Client) Levels(ctx context.Context, isotope string) ([]float64, error) {
	query := url.Values{"nucleus": {isotope}, "unc": {"nds"}}
	endpoint := c.baseURL() + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nndc: build request for %s: %w", isotope, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("nndc: fetch levels for %s: %w", isotope, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("nndc: fetch levels for %s: unexpected status %s", isotope, resp.Status)
	}

	levels, err := ParseLevels(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nndc: levels for %s: %w", isotope, err)
	}
	return levels, nil
}

package oci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ocicap/internal/domain"
)

const apiVersion = "20160918"

// nextPageHeader carries the opaque pagination token on list responses.
// An absent header means the final page has been served.
const nextPageHeader = "Opc-Next-Page"

// Credentials identifies the tenancy, user, and signing key used for
// every API call. Values come from the OCI ini config file.
type Credentials struct {
	Tenancy     string
	User        string
	Fingerprint string
	KeyFile     string
	Region      string
}

// Client is a minimal signed HTTP client for the compute, networking,
// and identity endpoints. Every list call drains pagination before
// returning; callers never see a partial inventory.
type Client struct {
	tenancy     string
	coreURL     string
	identityURL string
	signer      *Signer
	httpClient  *http.Client
}

// Option adjusts a Client. Used by tests to point at fake endpoints.
type Option func(*Client)

// WithEndpoints overrides the computed service base URLs.
func WithEndpoints(core, identity string) Option {
	return func(c *Client) {
		c.coreURL = core
		c.identityURL = identity
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Client for the region named in creds.
func NewClient(creds Credentials, signer *Signer, opts ...Option) *Client {
	c := &Client{
		tenancy:     creds.Tenancy,
		coreURL:     fmt.Sprintf("https://iaas.%s.oraclecloud.com/%s", creds.Region, apiVersion),
		identityURL: fmt.Sprintf("https://identity.%s.oraclecloud.com/%s", creds.Region, apiVersion),
		signer:      signer,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tenancy returns the compartment all calls are scoped to.
func (c *Client) Tenancy() string { return c.tenancy }

// APIError is a structured error response from the API. It normalizes
// to a domain.ProviderError at the transport boundary so nothing above
// this package handles raw HTTP details.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OCI API error (status %d): %s - %s", e.StatusCode, e.Code, e.Message)
}

// Normalize converts the error into the provider-neutral record the
// classifier operates on.
func (e *APIError) Normalize() *domain.ProviderError {
	return &domain.ProviderError{Code: e.Code, Message: e.Message, HTTPStatus: e.StatusCode}
}

// do issues one signed request and returns the response body plus the
// next-page token, if any.
func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, body any) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	if c.signer != nil {
		if err := c.signer.Sign(req, payload); err != nil {
			return nil, "", err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || (apiErr.Code == "" && apiErr.Message == "") {
			apiErr.Message = string(respBody)
		}
		return nil, "", apiErr
	}

	return respBody, resp.Header.Get(nextPageHeader), nil
}

// listAll repeatedly fetches pages of a list endpoint, decoding each
// page into a []T and concatenating, until the next-page token is
// exhausted.
func listAll[T any](ctx context.Context, c *Client, rawURL string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}

	var all []T
	for {
		body, next, err := c.do(ctx, http.MethodGet, rawURL, query, nil)
		if err != nil {
			return nil, err
		}

		var page []T
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		all = append(all, page...)

		if next == "" {
			return all, nil
		}
		query.Set("page", next)
	}
}

// ListInstances returns every compute instance in the tenancy
// compartment, across all pages.
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	q := url.Values{"compartmentId": {c.tenancy}}
	return listAll[Instance](ctx, c, c.coreURL+"/instances/", q)
}

// ListAvailabilityDomains returns the tenancy's availability domains.
func (c *Client) ListAvailabilityDomains(ctx context.Context) ([]AvailabilityDomain, error) {
	q := url.Values{"compartmentId": {c.tenancy}}
	return listAll[AvailabilityDomain](ctx, c, c.identityURL+"/availabilityDomains/", q)
}

// ListVCNs returns the virtual cloud networks in the compartment.
func (c *Client) ListVCNs(ctx context.Context) ([]VCN, error) {
	q := url.Values{"compartmentId": {c.tenancy}}
	return listAll[VCN](ctx, c, c.coreURL+"/vcns/", q)
}

// ListSubnets returns the subnets of one VCN.
func (c *Client) ListSubnets(ctx context.Context, vcnID string) ([]Subnet, error) {
	q := url.Values{"compartmentId": {c.tenancy}, "vcnId": {vcnID}}
	return listAll[Subnet](ctx, c, c.coreURL+"/subnets/", q)
}

// ListImages returns the images matching an operating system and
// version, in the API's default ordering (newest first).
func (c *Client) ListImages(ctx context.Context, operatingSystem, version string) ([]Image, error) {
	q := url.Values{
		"compartmentId":          {c.tenancy},
		"operatingSystem":        {operatingSystem},
		"operatingSystemVersion": {version},
	}
	return listAll[Image](ctx, c, c.coreURL+"/images/", q)
}

// LaunchInstance submits one instance creation request and returns the
// acknowledged instance.
func (c *Client) LaunchInstance(ctx context.Context, details LaunchDetails) (*Instance, error) {
	body, _, err := c.do(ctx, http.MethodPost, c.coreURL+"/instances/", nil, details)
	if err != nil {
		return nil, err
	}

	var instance Instance
	if err := json.Unmarshal(body, &instance); err != nil {
		return nil, fmt.Errorf("decode launch response: %w", err)
	}
	return &instance, nil
}

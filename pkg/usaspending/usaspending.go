// Package usaspending is a typed client for the USAspending
// spending-explorer aggregation endpoint.
//
// All queries go through a single POST endpoint whose body selects the
// breakdown axis ("type") and the filters to constrain it. Three query
// shapes are used by budgetflow:
//
//   - {"type": "object_class", "filters": {"fy": "2024"}}
//   - {"type": "budget_function", "filters": {"fy": "2024"}}
//   - {"type": "agency", "filters": {"fy": "2024", "object_class": ..., "budget_function": ...}}
//
// The client distinguishes transport failures (NETWORK_ERROR) from
// responses that violate the documented shape (UNEXPECTED_RESPONSE) and
// never retries: a failed query aborts the whole run.
package usaspending

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/httputil"
)

// DefaultBaseURL is the production USAspending API host.
const DefaultBaseURL = "https://api.usaspending.gov"

// spendingPath is the aggregation endpoint all queries use.
const spendingPath = "/api/v2/spending/"

const httpTimeout = 30 * time.Second

// Filters constrains an aggregation query. FY is always required; the
// object class and budget function identifiers are set only for
// agency-breakdown queries.
type Filters struct {
	FY             string `json:"fy"`
	ObjectClass    string `json:"object_class,omitempty"`
	BudgetFunction string `json:"budget_function,omitempty"`
}

// Request is the body of a spending-explorer query.
type Request struct {
	Type    string  `json:"type"`
	Filters Filters `json:"filters"`
}

// Result is one aggregated row of a spending response. ID is an opaque
// key used only to filter follow-up queries; Name is the display name.
type Result struct {
	ID     json.Number `json:"id"`
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Amount float64     `json:"amount"`
}

// response is the wire shape of the endpoint. Results is a pointer so a
// payload without the field can be told apart from an empty list.
type response struct {
	Results *[]Result `json:"results"`
}

// Client issues aggregation queries against the spending API.
// The zero value is not usable; construct with NewClient.
type Client struct {
	http  *http.Client
	base  string
	cache *httputil.Cache
}

// NewClient creates a Client for the given base URL. An empty baseURL
// selects the production API. A nil cache disables response caching.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		base:  baseURL,
		cache: cache,
	}
}

// Spending executes one aggregation query and returns its result rows in
// response order. Results are served from the local cache when fresh.
func (c *Client) Spending(ctx context.Context, req Request) ([]Result, error) {
	// The base URL is part of the key so entries cached from one host are
	// never served for another.
	key := fmt.Sprintf("spending:%s:%s:%s:%s:%s",
		c.base, req.Type, req.Filters.FY, req.Filters.ObjectClass, req.Filters.BudgetFunction)

	var results []Result
	if c.cache != nil {
		if ok, _ := c.cache.Get(key, &results); ok {
			return results, nil
		}
	}

	results, err := c.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, results)
	}
	return results, nil
}

func (c *Client) fetch(ctx context.Context, req Request) ([]Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+spendingPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s for type %s", spendingPath, req.Type)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, req.Type); err != nil {
		return nil, err
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnexpectedResponse, err, "decode %s response", req.Type)
	}
	if decoded.Results == nil {
		return nil, errors.New(errors.ErrCodeUnexpectedResponse, "%s response has no results field", req.Type)
	}
	return *decoded.Results, nil
}

func checkStatus(code int, queryType string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return errors.New(errors.ErrCodeNetwork, "%s query failed with status %d", queryType, code)
	default:
		return errors.New(errors.ErrCodeUnexpectedResponse, "%s query returned status %d", queryType, code)
	}
}

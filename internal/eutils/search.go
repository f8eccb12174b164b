package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest retmax ESearch accepts.
const MaxPageSize = 10000

// esearchResponse represents the raw JSON response from ESearch.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count            string   `json:"count"`
	RetMax           string   `json:"retmax"`
	RetStart         string   `json:"retstart"`
	IDList           []string `json:"idlist"`
	QueryTranslation string   `json:"querytranslation"`
	Error            string   `json:"ERROR"`
}

// Count returns the number of PubMed records matching query.
func (c *Client) Count(ctx context.Context, query string) (int, error) {
	result, err := c.search(ctx, query, 0, 0)
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

// ListIDs returns up to count PMIDs matching query, in the order ESearch
// ranks them. Pages are requested with retstart until count IDs are
// collected or the service stops returning IDs.
func (c *Client) ListIDs(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, count)
	for len(ids) < count {
		want := count - len(ids)
		if want > c.pageSize {
			want = c.pageSize
		}
		page, err := c.search(ctx, query, len(ids), want)
		if err != nil {
			return nil, err
		}
		if len(page.IDs) == 0 {
			break
		}
		ids = append(ids, page.IDs...)
	}
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

// search performs one ESearch request against PubMed.
func (c *Client) search(ctx context.Context, query string, start, limit int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("db", sourceDB)
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(limit))
	if start > 0 {
		params.Set("retstart", strconv.Itoa(start))
	}

	body, err := c.DoGet(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	return parseSearch(body)
}

func parseSearch(body []byte) (*SearchResult, error) {
	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w: %v", ErrMalformedResponse, err)
	}
	if resp.Result.Error != "" {
		return nil, fmt.Errorf("search rejected: %w: %s", ErrMalformedResponse, resp.Result.Error)
	}

	count, err := strconv.Atoi(resp.Result.Count)
	if err != nil || count < 0 {
		return nil, fmt.Errorf("parsing search count %q: %w", resp.Result.Count, ErrMalformedResponse)
	}

	ids := resp.Result.IDList
	if ids == nil {
		ids = []string{}
	}

	return &SearchResult{
		Count:            count,
		IDs:              ids,
		QueryTranslation: resp.Result.QueryTranslation,
	}, nil
}

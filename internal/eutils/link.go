package eutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ELink JSON response structures.
type elinkResponse struct {
	LinkSets []elinkLinkSet `json:"linksets"`
	Error    string         `json:"ERROR"`
}

type elinkLinkSet struct {
	DbFrom     string           `json:"dbfrom"`
	IDs        []elinkID        `json:"ids"`
	LinkSetDBs []elinkLinkSetDB `json:"linksetdbs"`
}

type elinkLinkSetDB struct {
	DbTo     string    `json:"dbto"`
	LinkName string    `json:"linkname"`
	Links    []elinkID `json:"links"`
}

// elinkID accepts the shapes ELink uses for identifiers: a bare string, a
// bare number, or an object carrying "id" or "value".
type elinkID string

func (e *elinkID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty identifier")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = elinkID(s)
	case '{':
		var obj struct {
			ID    json.RawMessage `json:"id"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		raw := obj.ID
		if len(raw) == 0 {
			raw = obj.Value
		}
		if len(raw) == 0 {
			return fmt.Errorf("identifier object has no id: %s", data)
		}
		return e.UnmarshalJSON(raw)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*e = elinkID(n.String())
	}
	return nil
}

// Link looks up, in one batched call, the identifiers each PMID links to in
// target.DB and counts them per source PMID.
//
// Each PMID is sent as its own id parameter so ELink answers with one link
// set per source. Only the first linksetdb of a link set is read; ELink
// returns a single group when a link name or a single target db is given.
func (c *Client) Link(ctx context.Context, pmids []string, target Target) (*LinkSet, error) {
	if target.DB == "" {
		return nil, fmt.Errorf("link target database cannot be empty")
	}

	result := &LinkSet{
		Target: target,
		Counts: LinkCount{},
		Pairs:  []LinkPair{},
	}
	if len(pmids) == 0 {
		return result, nil
	}

	params := url.Values{}
	params.Set("dbfrom", sourceDB)
	params.Set("db", target.DB)
	if target.LinkName != "" {
		params.Set("linkname", target.LinkName)
	}
	params.Set("retmode", "json")
	for _, id := range pmids {
		params.Add("id", id)
	}

	body, err := c.batched(ctx, "elink.fcgi", params, len(pmids))
	if err != nil {
		return nil, fmt.Errorf("link request failed: %w", err)
	}

	var resp elinkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing link response: %w: %v", ErrMalformedResponse, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("link rejected: %w: %s", ErrMalformedResponse, resp.Error)
	}

	for _, ls := range resp.LinkSets {
		if len(ls.LinkSetDBs) == 0 {
			continue
		}
		if len(ls.IDs) == 0 {
			return nil, fmt.Errorf("link set without a source id: %w", ErrMalformedResponse)
		}
		source := string(ls.IDs[0])
		for _, link := range ls.LinkSetDBs[0].Links {
			result.Counts[source]++
			result.Pairs = append(result.Pairs, LinkPair{SourceID: source, LinkedID: string(link)})
		}
	}

	return result, nil
}

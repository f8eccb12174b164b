package eutils

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Fetch retrieves MEDLINE records for the given PMIDs in one batched call.
// Records come back in the order EFetch returns them, which need not match
// the order of pmids.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]Record, error) {
	if len(pmids) == 0 {
		return nil, fmt.Errorf("at least one PMID is required")
	}

	params := url.Values{}
	params.Set("db", sourceDB)
	params.Set("id", strings.Join(pmids, ","))
	params.Set("rettype", "medline")
	params.Set("retmode", "text")

	body, err := c.batched(ctx, "efetch.fcgi", params, len(pmids))
	if err != nil {
		return nil, fmt.Errorf("fetch request failed: %w", err)
	}

	records, err := ParseMedline(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing MEDLINE response: %w", err)
	}
	return records, nil
}

// FetchAccessions resolves UIDs in db to accession.version strings. The
// response carries one accession per line in request order, so the result
// is positionally aligned with uids.
func (c *Client) FetchAccessions(ctx context.Context, db string, uids []string) ([]string, error) {
	if len(uids) == 0 {
		return []string{}, nil
	}
	if db == "" {
		return nil, fmt.Errorf("database cannot be empty")
	}

	params := url.Values{}
	params.Set("db", db)
	params.Set("id", strings.Join(uids, ","))
	params.Set("rettype", "acc")
	params.Set("retmode", "text")

	body, err := c.batched(ctx, "efetch.fcgi", params, len(uids))
	if err != nil {
		return nil, fmt.Errorf("accession request failed: %w", err)
	}

	var accessions []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		accessions = append(accessions, line)
	}
	if len(accessions) != len(uids) {
		return nil, fmt.Errorf("expected %d accessions, got %d: %w", len(uids), len(accessions), ErrMalformedResponse)
	}
	return accessions, nil
}

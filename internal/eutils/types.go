// Package eutils provides the E-utilities calls a scrape is built from:
// counting and listing search hits, fetching MEDLINE records, and linking
// publications to records in other Entrez databases.
package eutils

import "errors"

// ErrMalformedResponse marks a response that arrived intact but could not be
// interpreted. Network and HTTP failures are reported separately by the
// underlying ncbi client.
var ErrMalformedResponse = errors.New("malformed E-utilities response")

// SearchResult represents one page of an ESearch query.
type SearchResult struct {
	Count            int      `json:"count"`
	IDs              []string `json:"ids"`
	QueryTranslation string   `json:"query_translation"`
}

// Record is one publication parsed from the MEDLINE export format.
// Empty string fields mean the tag was absent from the record.
type Record struct {
	PMID       string   `json:"pmid"`
	PMC        string   `json:"pmc,omitempty"`
	Title      string   `json:"title,omitempty"`
	Abstract   string   `json:"abstract,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	EPubDate   string   `json:"epub_date,omitempty"`
	PubDate    string   `json:"pub_date,omitempty"`
	ArticleIDs []string `json:"article_ids,omitempty"`
}

// LinkCount maps a source PMID to the number of identifiers it links to in
// a target database. PMIDs without links are absent and count as zero.
type LinkCount map[string]int

// Get returns the link count for id, or 0 when id has no links.
func (lc LinkCount) Get(id string) int {
	return lc[id]
}

// LinkPair is a single (source, linked) identifier pair from an ELink response.
type LinkPair struct {
	SourceID string `json:"source_id"`
	LinkedID string `json:"linked_id"`
}

// LinkSet is the aggregated result of one batched ELink call.
type LinkSet struct {
	Target Target     `json:"target"`
	Counts LinkCount  `json:"counts"`
	Pairs  []LinkPair `json:"pairs"`
}

// LinkedIDs returns the linked identifiers in response order.
func (ls *LinkSet) LinkedIDs() []string {
	ids := make([]string, len(ls.Pairs))
	for i, p := range ls.Pairs {
		ids[i] = p.LinkedID
	}
	return ids
}

// Target names the database a link lookup resolves into. An empty LinkName
// requests the default link between pubmed and DB.
type Target struct {
	DB       string `json:"db"`
	LinkName string `json:"link_name,omitempty"`
}

var (
	// SequenceTarget links publications to nucleotide accessions.
	SequenceTarget = Target{DB: "nuccore", LinkName: "pubmed_nucleotide_accn"}
	// BiosampleTarget links publications to BioSample records.
	BiosampleTarget = Target{DB: "biosample"}
)

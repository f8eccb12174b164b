package report

import (
	"strings"

	"github.com/henrybloomingdale/article-scraper/internal/eutils"
)

const (
	// Missing stands in for an absent field.
	Missing = "?"
	// DOIBase prefixes the DOI column. With no DOI the column is
	// DOIBase+Missing, kept byte-for-byte so existing sheets still match.
	DOIBase = "http://doi.org//"
)

func orMissing(s string) string {
	if s == "" {
		return Missing
	}
	return s
}

// Authors joins the author list with commas. Names are not escaped.
func Authors(r eutils.Record) string {
	if len(r.Authors) == 0 {
		return Missing
	}
	return strings.Join(r.Authors, ",")
}

// PublicationDate returns the year and month columns. The electronic
// publication date (YYYYMMDD) wins; otherwise the print date is split on
// whitespace and a missing month becomes a single blank.
func PublicationDate(r eutils.Record) (year, month string) {
	if dep := r.EPubDate; dep != "" {
		return substr(dep, 0, 4), substr(dep, 4, 6)
	}

	fields := strings.Fields(r.PubDate)
	if len(fields) == 0 {
		return Missing, " "
	}
	year, month = fields[0], " "
	if len(fields) >= 2 {
		month = fields[1]
	}
	return year, month
}

// DOILink builds the resolver link from the first article identifier that
// mentions "doi", e.g. "10.1234/x [doi]".
func DOILink(r eutils.Record) string {
	for _, aid := range r.ArticleIDs {
		if !strings.Contains(aid, "doi") {
			continue
		}
		if fields := strings.Fields(aid); len(fields) > 0 {
			return DOIBase + fields[0]
		}
	}
	return DOIBase + Missing
}

// substr slices s[from:to] clamped to its length.
func substr(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

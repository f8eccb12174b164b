// Package report writes the tab-separated publication report and the
// optional per-link pair files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/henrybloomingdale/article-scraper/internal/eutils"
)

// Extension is appended to the caller's output base name.
const Extension = ".tsv"

// Column markers appended to term columns in the header.
const (
	TitleMarker    = "[PIT]"
	AbstractMarker = "[PIA]"
)

// Fixed header columns.
const (
	ColPMID      = "PubMed ID"
	ColPMC       = "PubMed Central ID"
	ColTitle     = "Title"
	ColAuthors   = "Authors"
	ColYear      = "Year of Publication"
	ColMonth     = "Month of Publication"
	ColDOI       = "Digital Object Identifier"
	ColSequence  = "Accession Count"
	ColBiosample = "Biosample Count"
)

// Options selects the optional column groups of a report.
type Options struct {
	TitleTerms    TermList
	AbstractTerms TermList

	// IncludeLinks adds the two link-count columns, read from Sequence
	// and Biosample.
	IncludeLinks bool
	Sequence     eutils.LinkCount
	Biosample    eutils.LinkCount
}

// Header returns the header cells for opts.
func Header(opts Options) []string {
	cols := []string{ColPMID, ColPMC, ColTitle, ColAuthors, ColYear, ColMonth, ColDOI}
	if opts.IncludeLinks {
		cols = append(cols, ColSequence, ColBiosample)
	}
	if opts.TitleTerms.Enabled() {
		for _, term := range opts.TitleTerms.terms {
			cols = append(cols, term+TitleMarker)
		}
	}
	if opts.AbstractTerms.Enabled() {
		for _, term := range opts.AbstractTerms.terms {
			cols = append(cols, term+AbstractMarker)
		}
	}
	return cols
}

// Row returns the cells for one record.
func Row(r eutils.Record, opts Options) []string {
	title := orMissing(r.Title)
	year, month := PublicationDate(r)

	row := []string{
		orMissing(r.PMID),
		orMissing(r.PMC),
		title,
		Authors(r),
		year,
		month,
		DOILink(r),
	}
	if opts.IncludeLinks {
		row = append(row,
			strconv.Itoa(opts.Sequence.Get(r.PMID)),
			strconv.Itoa(opts.Biosample.Get(r.PMID)),
		)
	}
	row = append(row, opts.TitleTerms.flags(title)...)
	row = append(row, opts.AbstractTerms.flags(orMissing(r.Abstract))...)
	return row
}

// Write writes the header and one row per record to w.
func Write(w io.Writer, records []eutils.Record, opts Options) error {
	bw := bufio.NewWriter(w)
	if err := writeLine(bw, Header(opts)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := writeLine(bw, Row(r, opts)); err != nil {
			return fmt.Errorf("writing record %s: %w", orMissing(r.PMID), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// WriteFile creates path and writes the report to it.
func WriteFile(path string, records []eutils.Record, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Write(f, records, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// Path returns the report path for an output base name.
func Path(base string) string {
	return base + Extension
}

func writeLine(w *bufio.Writer, cells []string) error {
	_, err := w.WriteString(strings.Join(cells, "\t") + "\n")
	return err
}

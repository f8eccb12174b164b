// Package scraper runs the publication report pipeline: count the query's
// hits, list their PMIDs, fetch the MEDLINE records, count links into the
// sequence and BioSample databases, and write the report.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/henrybloomingdale/article-scraper/internal/eutils"
	"github.com/henrybloomingdale/article-scraper/internal/logger"
	"github.com/henrybloomingdale/article-scraper/internal/report"
)

// EUtils is the subset of the E-utilities client a run needs.
type EUtils interface {
	Count(ctx context.Context, query string) (int, error)
	ListIDs(ctx context.Context, query string, count int) ([]string, error)
	Fetch(ctx context.Context, pmids []string) ([]eutils.Record, error)
	Link(ctx context.Context, pmids []string, target eutils.Target) (*eutils.LinkSet, error)
	FetchAccessions(ctx context.Context, db string, uids []string) ([]string, error)
}

// Params describes one run.
type Params struct {
	Query         string
	OutputBase    string
	TitleTerms    report.TermList
	AbstractTerms report.TermList

	// IncludeLinks runs both link lookups and adds their count columns.
	IncludeLinks bool
	// WritePairs also writes the per-link pair files. Requires IncludeLinks.
	WritePairs bool
}

func (p Params) validate() error {
	if p.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if p.OutputBase == "" {
		return fmt.Errorf("output base name cannot be empty")
	}
	if p.WritePairs && !p.IncludeLinks {
		return fmt.Errorf("pair files need link lookups; drop --no-links or --pairs")
	}
	return nil
}

// Summary reports what a run did.
type Summary struct {
	Query           string
	Count           int
	Records         int
	SequenceLinked  int
	SequenceLinks   int
	BiosampleLinked int
	BiosampleLinks  int
	LinksIncluded   bool
	ReportPath      string
	PairPaths       []string
}

// Scraper executes runs against an E-utilities client.
type Scraper struct {
	client EUtils
	log    *slog.Logger
}

// New creates a Scraper. A nil logger discards log output.
func New(client EUtils, log *slog.Logger) *Scraper {
	if log == nil {
		log = logger.Discard()
	}
	return &Scraper{client: client, log: log}
}

// Run executes every stage in order and writes the report. Any failure
// aborts the run; nothing is written unless all remote calls succeed.
func (s *Scraper) Run(ctx context.Context, p Params) (*Summary, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("scraper has no E-utilities client")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	sum := &Summary{
		Query:         p.Query,
		LinksIncluded: p.IncludeLinks,
		ReportPath:    report.Path(p.OutputBase),
	}

	s.log.Info("counting matches", "query", p.Query)
	count, err := s.client.Count(ctx, p.Query)
	if err != nil {
		return nil, fmt.Errorf("counting matches: %w", err)
	}
	sum.Count = count
	s.log.Info("matches counted", "count", count)

	opts := report.Options{
		TitleTerms:    p.TitleTerms,
		AbstractTerms: p.AbstractTerms,
		IncludeLinks:  p.IncludeLinks,
		Sequence:      eutils.LinkCount{},
		Biosample:     eutils.LinkCount{},
	}

	var (
		records             []eutils.Record
		sequence, biosample *eutils.LinkSet
	)
	if count > 0 {
		s.log.Debug("listing ids", "endpoint", "esearch.fcgi", "count", count)
		ids, err := s.client.ListIDs(ctx, p.Query, count)
		if err != nil {
			return nil, fmt.Errorf("listing ids: %w", err)
		}
		s.log.Info("ids listed", "ids", len(ids))

		if len(ids) > 0 {
			s.log.Debug("fetching records", "endpoint", "efetch.fcgi", "ids", len(ids))
			records, err = s.client.Fetch(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("fetching records: %w", err)
			}
			s.log.Info("records fetched", "records", len(records))

			if p.IncludeLinks {
				sequence, err = s.link(ctx, ids, eutils.SequenceTarget)
				if err != nil {
					return nil, err
				}
				biosample, err = s.link(ctx, ids, eutils.BiosampleTarget)
				if err != nil {
					return nil, err
				}
				opts.Sequence = sequence.Counts
				opts.Biosample = biosample.Counts
				sum.SequenceLinked, sum.SequenceLinks = len(sequence.Counts), len(sequence.Pairs)
				sum.BiosampleLinked, sum.BiosampleLinks = len(biosample.Counts), len(biosample.Pairs)
			}
		}
	}

	var accessions []string
	if p.WritePairs && sequence != nil {
		accessions, err = s.client.FetchAccessions(ctx, eutils.SequenceTarget.DB, sequence.LinkedIDs())
		if err != nil {
			return nil, fmt.Errorf("resolving accessions: %w", err)
		}
		s.log.Info("accessions resolved", "accessions", len(accessions))
	}

	s.log.Info("writing report", "path", sum.ReportPath, "rows", len(records))
	if err := report.WriteFile(sum.ReportPath, records, opts); err != nil {
		return nil, err
	}
	sum.Records = len(records)

	if p.WritePairs {
		paths, err := writePairs(p.OutputBase, sequence, biosample, accessions)
		if err != nil {
			return nil, err
		}
		sum.PairPaths = paths
	}

	return sum, nil
}

func (s *Scraper) link(ctx context.Context, ids []string, target eutils.Target) (*eutils.LinkSet, error) {
	s.log.Info("linking", "db", target.DB, "linkname", target.LinkName)
	s.log.Debug("link request", "endpoint", "elink.fcgi", "ids", len(ids))
	ls, err := s.client.Link(ctx, ids, target)
	if err != nil {
		return nil, fmt.Errorf("linking to %s: %w", target.DB, err)
	}
	s.log.Info("linked", "db", target.DB, "linked", len(ls.Counts), "links", len(ls.Pairs))
	return ls, nil
}

func writePairs(base string, sequence, biosample *eutils.LinkSet, accessions []string) ([]string, error) {
	var seqPairs, bioPairs []eutils.LinkPair
	if sequence != nil {
		seqPairs = sequence.Pairs
	}
	if biosample != nil {
		bioPairs = biosample.Pairs
	}

	seqPath := base + report.SequencePairsSuffix
	if err := report.WriteSequencePairs(seqPath, seqPairs, accessions); err != nil {
		return nil, err
	}
	bioPath := base + report.BiosamplePairsSuffix
	if err := report.WriteBiosamplePairs(bioPath, bioPairs); err != nil {
		return nil, err
	}
	return []string{seqPath, bioPath}, nil
}

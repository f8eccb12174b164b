// Command article-scraper builds a tab-separated publication report for a
// PubMed query, with optional title/abstract term flags and counts of
// linked nucleotide and BioSample records.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henrybloomingdale/article-scraper/internal/config"
	"github.com/henrybloomingdale/article-scraper/internal/credentials"
	"github.com/henrybloomingdale/article-scraper/internal/logger"
	"github.com/henrybloomingdale/article-scraper/internal/output"
	"github.com/henrybloomingdale/article-scraper/internal/report"
	"github.com/henrybloomingdale/article-scraper/internal/scraper"
)

const appName = "Article Scraper"

var version = "dev"

type options struct {
	configFile  string
	credentials string
	output      string
	pit         string
	pia         string
	noLinks     bool
	pairs       bool
	quiet       bool
	logLevel    string
	logFormat   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "article-scraper <query>",
		Short: "Build a PubMed publication report",
		Long: `Search PubMed with an Entrez query, fetch every matching record and write
a tab-separated report to <output>.tsv. Each row carries the PMID, PMC ID,
title, authors, publication year and month, abstract and DOI link, plus
0/1 flags for title (--pit) and abstract (--pia) terms and counts of
linked nucleotide and BioSample records.

Credentials are read from a three-line file: contact e-mail, NCBI API key
(may be blank) and an account label.`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "out", "Output base name; the report is written to <output>.tsv")
	f.StringVar(&opts.pit, "pit", report.TermSentinel, "Comma-separated title terms to flag ("+report.TermSentinel+" disables)")
	f.StringVar(&opts.pia, "pia", report.TermSentinel, "Comma-separated abstract terms to flag ("+report.TermSentinel+" disables)")
	f.StringVar(&opts.credentials, "credentials", "", "Credentials file (default "+credentials.DefaultPath+")")
	f.StringVar(&opts.configFile, "config", "", "Config file (default ./article-scraper.yaml or ~/.config/article-scraper/article-scraper.yaml)")
	f.BoolVar(&opts.noLinks, "no-links", false, "Skip the nucleotide and BioSample link lookups and their columns")
	f.BoolVar(&opts.pairs, "pairs", false, "Also write <output>_acc.tsv and <output>_bios.tsv link pair files")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the banner and summary")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	return cmd
}

func run(cmd *cobra.Command, opts *options, query string) error {
	v, err := config.New(opts.configFile)
	if err != nil {
		return err
	}
	// Explicit flags win over the config file and environment.
	if opts.credentials != "" {
		v.Set(config.KeyCredentials, opts.credentials)
	}
	if opts.logLevel != "" {
		v.Set(config.KeyLogLevel, opts.logLevel)
	}
	if opts.logFormat != "" {
		v.Set(config.KeyLogFormat, opts.logFormat)
	}
	settings, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	creds, err := credentials.Load(settings.Credentials)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	log := logger.New("article-scraper", logger.Config{
		Writer: stderr,
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})

	params := buildParams(opts, query)

	if !opts.quiet {
		err := output.FormatBanner(stderr, output.Banner{
			Name:        appName,
			Version:     version,
			AccessPoint: settings.BaseURL,
			Email:       creds.Email,
			Account:     creds.Account,
			APIKey:      creds.MaskedKey(),
		})
		if err != nil {
			return err
		}
	}

	s := scraper.New(scraper.NewClient(settings, creds), log)
	summary, err := s.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	if opts.quiet {
		return nil
	}
	return output.FormatSummary(stderr, summary)
}

func buildParams(opts *options, query string) scraper.Params {
	return scraper.Params{
		Query:         query,
		OutputBase:    opts.output,
		TitleTerms:    report.ParseTerms(opts.pit),
		AbstractTerms: report.ParseTerms(opts.pia),
		IncludeLinks:  !opts.noLinks,
		WritePairs:    opts.pairs,
	}
}

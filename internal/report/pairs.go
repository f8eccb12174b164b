package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/henrybloomingdale/article-scraper/internal/eutils"
)

// Pair file suffixes, appended to the output base name.
const (
	SequencePairsSuffix  = "_acc" + Extension
	BiosamplePairsSuffix = "_bios" + Extension
)

// WriteSequencePairs writes one line per publication-to-sequence link.
// accessions must be aligned with pairs.
func WriteSequencePairs(path string, pairs []eutils.LinkPair, accessions []string) error {
	if len(accessions) != len(pairs) {
		return fmt.Errorf("have %d accessions for %d sequence links", len(accessions), len(pairs))
	}
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.SourceID, p.LinkedID, accessions[i]}
	}
	return writeTable(path, []string{"PubMed ID", "Sequence ID", "GB Accession"}, rows)
}

// WriteBiosamplePairs writes one line per publication-to-BioSample link.
func WriteBiosamplePairs(path string, pairs []eutils.LinkPair) error {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.SourceID, p.LinkedID}
	}
	return writeTable(path, []string{"PubMed ID", "BioSample ID"}, rows)
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeLine(w, header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writeLine(w, row); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

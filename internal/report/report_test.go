package report

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrybloomingdale/article-scraper/internal/eutils"
)

var fixedColumns = []string{
	"PubMed ID", "PubMed Central ID", "Title", "Authors",
	"Year of Publication", "Month of Publication", "Digital Object Identifier",
}

func sampleRecords() []eutils.Record {
	return []eutils.Record{
		{
			PMID:       "31000001",
			PMC:        "PMC7000001",
			Title:      "Plasmid conjugation frequency in soil bacteria",
			Abstract:   "Conjugation is a major route of horizontal gene transfer.",
			Authors:    []string{"Smith J", "Doe J"},
			EPubDate:   "20200315",
			PubDate:    "2020 Mar",
			ArticleIDs: []string{"JB.00123-19 [pii]", "10.1128/JB.00123-19 [doi]"},
		},
		{
			PMID:    "31000002",
			Title:   "Genome sequences of environmental isolates",
			PubDate: "2019",
		},
	}
}

func linkedOptions() Options {
	return Options{
		IncludeLinks: true,
		Sequence:     eutils.LinkCount{"31000001": 3},
		Biosample:    eutils.LinkCount{"31000002": 2},
	}
}

func readLines(t *testing.T, data string) [][]string {
	t.Helper()
	var lines [][]string
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		lines = append(lines, strings.Split(sc.Text(), "\t"))
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestHeader(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "links without terms",
			opts: Options{IncludeLinks: true},
			want: append(append([]string{}, fixedColumns...), "Accession Count", "Biosample Count"),
		},
		{
			name: "no links",
			opts: Options{},
			want: fixedColumns,
		},
		{
			name: "title and abstract terms in order",
			opts: Options{
				IncludeLinks:  true,
				TitleTerms:    Terms("conjugation", "frequency"),
				AbstractTerms: Terms("transfer"),
			},
			want: append(append([]string{}, fixedColumns...),
				"Accession Count", "Biosample Count",
				"conjugation[PIT]", "frequency[PIT]", "transfer[PIA]"),
		},
		{
			name: "disabled lists add no columns",
			opts: Options{IncludeLinks: true, TitleTerms: ParseTerms("???"), AbstractTerms: ParseTerms("???")},
			want: append(append([]string{}, fixedColumns...), "Accession Count", "Biosample Count"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Header(tt.opts))
		})
	}
}

func TestRow_FullRecord(t *testing.T) {
	opts := linkedOptions()
	opts.TitleTerms = Terms("conjugation", "virus")
	opts.AbstractTerms = Terms("horizontal", "vertical")

	row := Row(sampleRecords()[0], opts)
	assert.Equal(t, []string{
		"31000001",
		"PMC7000001",
		"Plasmid conjugation frequency in soil bacteria",
		"Smith J,Doe J",
		"2020",
		"03",
		"http://doi.org//10.1128/JB.00123-19",
		"3",
		"0",
		"1", "0",
		"1", "0",
	}, row)
}

func TestRow_MissingFields(t *testing.T) {
	opts := linkedOptions()
	opts.AbstractTerms = Terms("gene", "?")

	row := Row(eutils.Record{}, opts)
	assert.Equal(t, []string{"?", "?", "?", "?", "?", " ", "http://doi.org//?", "0", "0", "0", "1"}, row)
}

func TestRow_ColumnCountMatchesHeader(t *testing.T) {
	for _, opts := range []Options{
		{},
		linkedOptions(),
		{TitleTerms: Terms("a", "b", "c")},
		{IncludeLinks: true, TitleTerms: Terms("a"), AbstractTerms: Terms("b", "c")},
	} {
		for _, rec := range sampleRecords() {
			assert.Len(t, Row(rec, opts), len(Header(opts)))
		}
	}
}

func TestRow_LinkCountsDefaultToZero(t *testing.T) {
	opts := Options{IncludeLinks: true}
	row := Row(sampleRecords()[0], opts)
	assert.Equal(t, "0", row[7])
	assert.Equal(t, "0", row[8])
}

func TestWrite_EveryRecordGetsARow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecords(), linkedOptions()))

	lines := readLines(t, buf.String())
	require.Len(t, lines, 3)
	assert.Equal(t, Header(linkedOptions()), lines[0])

	assert.Equal(t, "31000001", lines[1][0])
	assert.Equal(t, "3", lines[1][7])
	assert.Equal(t, "0", lines[1][8])

	assert.Equal(t, "31000002", lines[2][0])
	assert.Equal(t, "0", lines[2][7])
	assert.Equal(t, "2", lines[2][8])
	assert.Equal(t, "2019", lines[2][4])
	assert.Equal(t, " ", lines[2][5])

	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWrite_HeaderOnlyForNoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Options{IncludeLinks: true}))

	assert.Equal(t, strings.Join(Header(Options{IncludeLinks: true}), "\t")+"\n", buf.String())
}

func TestWriteFile_HeaderRoundTrip(t *testing.T) {
	path := Path(filepath.Join(t.TempDir(), "out"))
	assert.True(t, strings.HasSuffix(path, "out.tsv"))

	opts := linkedOptions()
	opts.TitleTerms = ParseTerms("conjugation,frequency")
	opts.AbstractTerms = ParseTerms("transfer")
	require.NoError(t, WriteFile(path, sampleRecords(), opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := readLines(t, string(data))
	require.Len(t, lines, 3)
	want := append(append([]string{}, fixedColumns...),
		"Accession Count", "Biosample Count", "conjugation[PIT]", "frequency[PIT]", "transfer[PIA]")
	assert.Equal(t, want, lines[0])
	assert.Equal(t, []string{"1", "1", "1"}, lines[1][9:])
	assert.Equal(t, []string{"0", "0", "0"}, lines[2][9:])
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.tsv"), nil, Options{})
	require.Error(t, err)
}

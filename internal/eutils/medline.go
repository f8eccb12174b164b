package eutils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MEDLINE tags read into Record.
const (
	tagPMID     = "PMID"
	tagPMC      = "PMC"
	tagTitle    = "TI"
	tagAbstract = "AB"
	tagAuthor   = "AU"
	tagEPubDate = "DEP"
	tagPubDate  = "DP"
	tagArticle  = "AID"
)

// continuationIndent prefixes lines that extend the previous tag's value.
const continuationIndent = "      "

// ParseMedline reads records in the MEDLINE export format. Each record is a
// block of "TAG - value" lines separated from the next by a blank line.
func ParseMedline(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		records []Record
		fields  map[string][]string
		lastTag string
		lineNo  int
	)

	flush := func() {
		if fields != nil {
			records = append(records, recordFromFields(fields))
		}
		fields = nil
		lastTag = ""
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if strings.HasPrefix(line, continuationIndent) {
			if lastTag == "" {
				return nil, fmt.Errorf("line %d: continuation without a tag: %w", lineNo, ErrMalformedResponse)
			}
			values := fields[lastTag]
			values[len(values)-1] += " " + strings.TrimSpace(line)
			continue
		}

		tag, value, ok := splitTagLine(line)
		if !ok {
			return nil, fmt.Errorf("line %d: not a MEDLINE tag line %q: %w", lineNo, truncate(line, 40), ErrMalformedResponse)
		}
		if fields == nil {
			fields = make(map[string][]string)
		}
		fields[tag] = append(fields[tag], value)
		lastTag = tag
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MEDLINE: %w", err)
	}
	flush()

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// splitTagLine splits "AU  - Smith J" into ("AU", "Smith J").
func splitTagLine(line string) (string, string, bool) {
	if len(line) < 5 || line[4] != '-' {
		return "", "", false
	}
	tag := strings.TrimSpace(line[:4])
	if tag == "" {
		return "", "", false
	}
	value := ""
	if len(line) > 5 {
		value = strings.TrimSpace(line[5:])
	}
	return tag, value, true
}

func recordFromFields(fields map[string][]string) Record {
	first := func(tag string) string {
		if v := fields[tag]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	// Text tags may repeat (e.g. a second abstract in another language).
	joined := func(tag string) string {
		return strings.Join(fields[tag], " ")
	}

	return Record{
		PMID:       first(tagPMID),
		PMC:        first(tagPMC),
		Title:      joined(tagTitle),
		Abstract:   joined(tagAbstract),
		Authors:    fields[tagAuthor],
		EPubDate:   first(tagEPubDate),
		PubDate:    first(tagPubDate),
		ArticleIDs: fields[tagArticle],
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

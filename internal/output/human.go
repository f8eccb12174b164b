// Package output renders the run banner and summary for the terminal.
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/henrybloomingdale/article-scraper/internal/scraper"
)

// --- Styles ---

var (
	cyan       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold       = lipgloss.NewStyle().Bold(true)
	dim        = lipgloss.NewStyle().Faint(true)
	green      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

// Banner describes who a run is made as.
type Banner struct {
	Name        string
	Version     string
	AccessPoint string
	Email       string
	Account     string
	APIKey      string // already masked
}

// FormatBanner writes the start-of-run banner.
func FormatBanner(w io.Writer, b Banner) error {
	title := bold.Render(b.Name) + dim.Render(" v"+b.Version)
	lines := title + "\n" +
		labelStyle.Render("API access point: ") + b.AccessPoint + "\n" +
		labelStyle.Render("Associated e-mail: ") + cyan.Render(b.Email) + "\n" +
		labelStyle.Render("Associated account: ") + orDash(b.Account) + "\n" +
		labelStyle.Render("API key: ") + dim.Render(b.APIKey)
	_, err := fmt.Fprintln(w, boxStyle.Render(lines))
	return err
}

// FormatSummary writes the end-of-run summary table.
func FormatSummary(w io.Writer, s *scraper.Summary) error {
	if s == nil {
		return nil
	}

	rows := [][]string{
		{"Query", s.Query},
		{"Matches", strconv.Itoa(s.Count)},
		{"Records written", strconv.Itoa(s.Records)},
	}
	if s.LinksIncluded {
		rows = append(rows,
			[]string{"With sequence links", fmt.Sprintf("%d (%d links)", s.SequenceLinked, s.SequenceLinks)},
			[]string{"With BioSample links", fmt.Sprintf("%d (%d links)", s.BiosampleLinked, s.BiosampleLinks)},
		)
	}
	rows = append(rows, []string{"Report", green.Render(s.ReportPath)})
	for _, p := range s.PairPaths {
		rows = append(rows, []string{"Pairs", green.Render(p)})
	}

	t := table.New().
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return lipgloss.NewStyle()
		})

	if s.Count == 0 {
		fmt.Fprintln(w, "🔬 No results found; wrote header only.")
	} else {
		fmt.Fprintln(w, bold.Render(fmt.Sprintf("🔬 Found %d results", s.Count)))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func orDash(s string) string {
	if s == "" {
		return dim.Render("-")
	}
	return s
}

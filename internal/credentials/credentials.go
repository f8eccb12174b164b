// Package credentials loads the NCBI account details a scrape runs under.
//
// The credential file holds exactly three lines, in order: the contact
// e-mail sent with every request, the NCBI API key (may be blank), and a
// free-form account label shown in the run banner.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultPath is where the CLI looks for the credential file.
const DefaultPath = "credentials.dat"

var (
	// ErrMissing is returned when the credential file does not exist.
	ErrMissing = errors.New("credentials file not found")
	// ErrMalformed is returned when the file does not hold the expected lines.
	ErrMalformed = errors.New("credentials file is malformed")
)

// Credentials identifies the caller to NCBI.
type Credentials struct {
	Email   string
	APIKey  string
	Account string
}

// Load reads and validates the credential file at path.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return Credentials{}, fmt.Errorf("reading credentials %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse validates credential file contents.
func Parse(text string) (Credentials, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 3 {
		return Credentials{}, fmt.Errorf("%w: expected 3 lines (email, API key, account), got %d", ErrMalformed, len(lines))
	}

	c := Credentials{
		Email:   strings.TrimSpace(lines[0]),
		APIKey:  strings.TrimSpace(lines[1]),
		Account: strings.TrimSpace(lines[2]),
	}
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return Credentials{}, fmt.Errorf("%w: first line must be an e-mail address", ErrMalformed)
	}
	if strings.ContainsAny(c.APIKey, " \t") {
		return Credentials{}, fmt.Errorf("%w: API key must not contain whitespace", ErrMalformed)
	}
	return c, nil
}

// MaskedKey returns the API key with all but its last four characters hidden.
func (c Credentials) MaskedKey() string {
	if c.APIKey == "" {
		return "(none)"
	}
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}

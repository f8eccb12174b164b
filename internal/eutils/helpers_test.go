package eutils

import (
	"os"
	"path/filepath"
	"testing"
)

func loadTestdata(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", filename))
	if err != nil {
		t.Fatalf("failed to load testdata/%s: %v", filename, err)
	}
	return data
}

func newTestClient(srvURL string, opts ...Option) *Client {
	base := []Option{WithBaseURL(srvURL), WithAPIKey("test"), WithEmail("test@example.com")}
	return NewClient(append(base, opts...)...)
}

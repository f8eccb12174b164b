package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantEnabled bool
		want        []string
	}{
		{"sentinel disables", "???", false, []string{}},
		{"single term", "conjugation", true, []string{"conjugation"}},
		{"trims each term", " conjugation , frequency ", true, []string{"conjugation", "frequency"}},
		{"empty string is one empty term", "", true, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTerms(tt.raw)
			assert.Equal(t, tt.wantEnabled, got.Enabled())
			assert.Equal(t, tt.want, got.Values())
			assert.Equal(t, len(tt.want), got.Len())
		})
	}
}

func TestTermListFlags(t *testing.T) {
	l := Terms("conjugation", "Frequency", "plasmid")
	assert.Equal(t, []string{"1", "0", "1"}, l.flags("plasmid conjugation frequency"))

	assert.Nil(t, NoTerms().flags("anything"))
	assert.Equal(t, 0, NoTerms().Len())
	assert.False(t, NoTerms().Enabled())
}

func TestTermsCopiesInput(t *testing.T) {
	in := []string{"a", "b"}
	l := Terms(in...)
	in[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, l.Values())
}

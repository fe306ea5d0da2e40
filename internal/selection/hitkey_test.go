package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeKey(t *testing.T) {
	tests := []struct {
		name      string
		accession string
		ordinal   int
		want      HitKey
	}{
		{"simple", "ACC1", 2, "ACC1_2"},
		{"versioned accession", "NP_001234.1", 1, "NP_001234.1_1"},
		{"empty accession", "", 3, "_3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeKey(tt.accession, tt.ordinal))
		})
	}
}

func TestMakeKeyStability(t *testing.T) {
	assert.Equal(t, MakeKey("P12345", 1), MakeKey("P12345", 1))
	assert.NotEqual(t, MakeKey("P12345", 1), MakeKey("P12345", 2))
	assert.NotEqual(t, MakeKey("P12345", 1), MakeKey("P12346", 1))
}

package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "fixed", want: Fixed},
		{in: "sentence", want: Sentence},
		{in: "paragraph", want: Paragraph},
		{in: "", wantErr: true},
		{in: "Fixed", wantErr: true},
		{in: "words", wantErr: true},
	}
	for _, tt := range tests {
		t.Run("tag "+tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit(t *testing.T) {
	text := "First sentence. Second sentence.\n\nAnother paragraph."

	t.Run("dispatches to each strategy", func(t *testing.T) {
		for _, s := range []Strategy{Fixed, Sentence, Paragraph} {
			chunks, err := Split(text, s, Options{})
			require.NoError(t, err, "strategy %s", s)
			assert.NotEmpty(t, chunks, "strategy %s", s)
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := Split(text, Strategy("words"), Options{})
		assert.Error(t, err)
	})

	t.Run("zero options fall back to defaults", func(t *testing.T) {
		chunks, err := Split(text, Fixed, Options{})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("explicit options are honored", func(t *testing.T) {
		chunks, err := Split(cyclicDigits(200), Fixed, Options{FixedSize: 50, FixedOverlap: 10})
		require.NoError(t, err)
		assert.Len(t, chunks, 5)
	})

	t.Run("invalid options surface the chunker error", func(t *testing.T) {
		_, err := Split(text, Fixed, Options{FixedSize: 10, FixedOverlap: 10})
		assert.Error(t, err)
	})
}

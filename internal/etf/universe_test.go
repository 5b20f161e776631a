package etf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUniverse(t *testing.T) {
	assert.Len(t, DefaultUniverse, 80)
	assert.Equal(t, "SPY", DefaultUniverse[0])
	assert.Equal(t, "AVUS", DefaultUniverse[79])

	u := Universe()
	u[0] = "CHANGED"
	assert.Equal(t, "SPY", DefaultUniverse[0])
}

func TestStaticUniverse(t *testing.T) {
	got, err := StaticUniverse{"SPY", "QQQ"}.Tickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "QQQ"}, got)

	_, err = StaticUniverse{}.Tickers(context.Background())
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestParseUniverse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"yaml list", "# core\n- spy\n- QQQ\n", []string{"SPY", "QQQ"}},
		{"lines", "SPY\n\n# comment\n tlt \n", []string{"SPY", "TLT"}},
		{"single", "gld", []string{"GLD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUniverse([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseUniverse([]byte("\n# nothing\n"))
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestFileUniverse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- SPY\n- BND\n"), 0o644))

	got, err := FileUniverse{Path: path}.Tickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "BND"}, got)

	_, err = FileUniverse{Path: filepath.Join(dir, "missing.yaml")}.Tickers(context.Background())
	assert.Error(t, err)
}

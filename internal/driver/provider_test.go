//go:build cgo

package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureRoot = "../../testdata/cases"

// Обе реализации разбора должны давать одинаковые диагностики.
func TestProvidersAgree(t *testing.T) {
	cases, err := LoadCases(fixtureRoot, nil)
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		if c.Skip != "" {
			continue
		}
		t.Run(c.Name, func(t *testing.T) {
			native := analyzePair(t, c.Input, Options{Provider: ProviderNative})
			sitter := analyzePair(t, c.Input, Options{Provider: ProviderTreeSitter})
			require.False(t, native.Broken(), "native: %v", lines(native))
			require.False(t, sitter.Broken(), "treesitter: %v", lines(sitter))
			assert.Equal(t, lines(native), lines(sitter))
		})
	}
}

func TestFixtureCasesPass(t *testing.T) {
	cases, err := LoadCases(fixtureRoot, nil)
	require.NoError(t, err)
	for _, p := range []Provider{ProviderNative, ProviderTreeSitter} {
		report, err := RunCases(context.Background(), cases, RunOptions{Pair: Options{Provider: p}, Jobs: 2})
		require.NoError(t, err)
		for _, r := range report.Results {
			assert.True(t, r.Passed || r.Skipped, "%s/%s: got %v, want %v", p, r.Case.Name, r.Actual, r.Expected)
		}
	}
}

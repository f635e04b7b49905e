package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"encrude/internal/driver"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// addCaseSeeds adds the before and after documents of every fixture case.
func addCaseSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("class C { void M() { <AS:0>F();</AS:0> } }\n"))

	root := filepath.Join("..", "..", "testdata", "cases")
	if _, err := os.Stat(root); err != nil {
		return
	}
	cases, err := driver.LoadCases(root, nil)
	if err != nil {
		return
	}
	for _, c := range cases {
		f.Add(clampSeed(c.Input.Before))
		if c.Input.After != nil {
			f.Add(clampSeed(c.Input.After))
		}
	}
}

// addPairSeeds adds (before, after) pairs of fixture cases that carry both texts.
func addPairSeeds(f *testing.F) {
	f.Add([]byte("class C { void M() { <AS:0>F();</AS:0> } }"), []byte("class C { void M() { while (true) { F(); } } }"))

	cases, err := driver.LoadCases(filepath.Join("..", "..", "testdata", "cases"), nil)
	if err != nil {
		return
	}
	for _, c := range cases {
		if c.Input.After != nil {
			f.Add(clampSeed(c.Input.Before), clampSeed(c.Input.After))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

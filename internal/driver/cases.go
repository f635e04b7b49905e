package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"encrude/internal/diag"
)

// DefaultInclude matches every case file below the fixture root.
const DefaultInclude = "**/*.toml"

// ErrBadCase is returned for case files that cannot be turned into a pair.
var ErrBadCase = errors.New("bad case file")

// Case is one fixture: a document pair plus the diagnostics it must produce.
type Case struct {
	Name   string
	Path   string
	Input  PairInput
	Expect []diag.Expectation
	// Skip, when set, is the reason the case is not run.
	Skip string
}

type caseFile struct {
	Name       string        `toml:"name"`
	Skip       string        `toml:"skip"`
	Leaf       []int         `toml:"leaf"`
	Before     string        `toml:"before"`
	After      *string       `toml:"after"`
	Patch      string        `toml:"patch"`
	BeforeFile string        `toml:"before_file"`
	AfterFile  string        `toml:"after_file"`
	PatchFile  string        `toml:"patch_file"`
	Expect     []expectEntry `toml:"expect"`
}

type expectEntry struct {
	Code     string `toml:"code"`
	Span     string `toml:"span"`
	Arg      string `toml:"arg"`
	Detached bool   `toml:"detached"`
}

// LoadCases finds case files under dir matching any include pattern
// (DefaultInclude when none is given) and decodes them in path order.
func LoadCases(dir string, include []string) ([]*Case, error) {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	fsys := os.DirFS(dir)
	var paths []string
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad include pattern %q", ErrBadCase, pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	// Сортируем для детерминированного порядка
	slices.Sort(paths)
	paths = slices.Compact(paths)

	cases := make([]*Case, 0, len(paths))
	for _, rel := range paths {
		c, err := LoadCase(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		if c.Name == "" {
			c.Name = strings.TrimSuffix(rel, filepath.Ext(rel))
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// LoadCase decodes one case file. Relative *_file paths resolve against its directory.
func LoadCase(path string) (*Case, error) {
	var cf caseFile
	meta, err := toml.DecodeFile(path, &cf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: %w: unknown key %q", path, ErrBadCase, undecoded[0].String())
	}
	base := filepath.Dir(path)
	read := func(inline, file string) ([]byte, bool, error) {
		if file == "" {
			return []byte(inline), inline != "", nil
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		// #nosec G304 -- path comes from the fixture tree
		data, rerr := os.ReadFile(file)
		if rerr != nil {
			if errors.Is(rerr, fs.ErrNotExist) {
				return nil, false, fmt.Errorf("%s: %w: %s does not exist", path, ErrBadCase, file)
			}
			return nil, false, rerr
		}
		return data, true, nil
	}

	c := &Case{Name: cf.Name, Path: path, Skip: cf.Skip}
	c.Input.BeforePath = pathOr(cf.BeforeFile, "before.cs")
	c.Input.AfterPath = pathOr(cf.AfterFile, "after.cs")
	c.Input.Leaf = cf.Leaf

	before, _, err := read(cf.Before, cf.BeforeFile)
	if err != nil {
		return nil, err
	}
	c.Input.Before = before

	after := ""
	if cf.After != nil {
		after = *cf.After
	}
	afterData, hasAfter, err := read(after, cf.AfterFile)
	if err != nil {
		return nil, err
	}
	hasAfter = hasAfter || cf.After != nil
	patchData, hasPatch, err := read(cf.Patch, cf.PatchFile)
	if err != nil {
		return nil, err
	}
	switch {
	case hasAfter && hasPatch:
		return nil, fmt.Errorf("%s: %w: both after and patch given", path, ErrBadCase)
	case hasPatch:
		c.Input.Patch = patchData
	case hasAfter:
		c.Input.After = afterData
	default:
		return nil, fmt.Errorf("%s: %w: neither after nor patch given", path, ErrBadCase)
	}

	for i, e := range cf.Expect {
		code, ok := diag.ParseCode(e.Code)
		if !ok {
			return nil, fmt.Errorf("%s: %w: expect[%d]: unknown code %q", path, ErrBadCase, i, e.Code)
		}
		exp := diag.Expectation{Code: code, Text: e.Span, Arg: e.Arg, Detached: e.Detached}
		if !e.Detached && e.Span == "" {
			return nil, fmt.Errorf("%s: %w: expect[%d]: span is required unless detached", path, ErrBadCase, i)
		}
		c.Expect = append(c.Expect, exp)
	}
	return c, nil
}

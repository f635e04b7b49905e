// Package patch produces the after document of a pair from a unified diff.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

var (
	// ErrNoFile: the diff does not touch the requested document.
	ErrNoFile = errors.New("patch does not touch the file")
	// ErrAmbiguous: several files in the diff and no name to choose one.
	ErrAmbiguous = errors.New("patch touches several files")
	// ErrBinary: binary patches cannot produce C# text.
	ErrBinary = errors.New("binary patch")
)

// Apply applies the diff to before and returns the patched text. name picks
// the file entry when the diff touches several files; it is matched against
// the new and old names, with and without directories.
func Apply(before []byte, diff io.Reader, name string) ([]byte, error) {
	files, _, err := gitdiff.Parse(diff)
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	f, err := pick(files, name)
	if err != nil {
		return nil, err
	}
	if f.IsBinary {
		return nil, fmt.Errorf("%s: %w", f.NewName, ErrBinary)
	}
	if f.IsDelete {
		return []byte{}, nil
	}
	var out bytes.Buffer
	if err := gitdiff.Apply(&out, bytes.NewReader(before), f); err != nil {
		return nil, fmt.Errorf("apply patch to %s: %w", displayName(f), err)
	}
	return out.Bytes(), nil
}

func pick(files []*gitdiff.File, name string) (*gitdiff.File, error) {
	switch {
	case len(files) == 0:
		return nil, ErrNoFile
	case name == "" && len(files) == 1:
		return files[0], nil
	case name == "":
		return nil, fmt.Errorf("%w: %d files", ErrAmbiguous, len(files))
	}
	want := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "./")
	for _, f := range files {
		for _, n := range []string{f.NewName, f.OldName} {
			if n == "" {
				continue
			}
			if n == want || path.Base(n) == path.Base(want) || strings.HasSuffix(want, "/"+n) {
				return f, nil
			}
		}
	}
	if len(files) == 1 {
		return files[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoFile, name)
}

func displayName(f *gitdiff.File) string {
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/markup"
	"encrude/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Marks   []markup.Mark
	Bag     *diag.Bag
}

// Parse builds the tree of one (possibly annotated) file with the given provider.
func Parse(ctx context.Context, filePath string, p Provider, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	clean, marks, err := markup.Parse(string(file.Content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	if len(marks) > 0 {
		file = fs.Get(fs.Add(filePath, []byte(clean), file.Flags))
	}

	var maxErrors uint
	maxErrors, err = safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	tree, err := parseWith(ctx, p, file, diag.BagReporter{Bag: bag}, maxErrors)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    tree,
		Marks:   marks,
		Bag:     bag,
	}, nil
}

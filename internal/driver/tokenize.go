package driver

import (
	"encrude/internal/diag"
	"encrude/internal/lexer"
	"encrude/internal/markup"
	"encrude/internal/source"
	"encrude/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file. Active statement markup is stripped first so that
// annotated fixtures can be inspected directly.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	if clean, _, merr := markup.Parse(string(file.Content)); merr != nil {
		ioError(bag, diag.IOMarkupError, merr)
	} else if len(clean) != len(file.Content) {
		file = fs.Get(fs.Add(path, []byte(clean), file.Flags))
	}

	tokens := lexer.Tokenize(file, lexer.Options{
		Reporter:       diag.BagReporter{Bag: bag},
		KeepDirectives: true,
	})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// Package markup reads active-statement annotations embedded in C# source:
// <AS:N>...</AS:N> marks active statement N, <ER:N.M>...</ER:N.M> marks an
// exception region and is only stripped.
package markup

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrMalformed is returned for unbalanced, duplicated or unparsable tags.
var ErrMalformed = errors.New("malformed active statement markup")

// Mark is one active statement region in the clean text.
type Mark struct {
	ID    int
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
	Leaf  bool
}

type openTag struct {
	kind string
	id   string
	at   int
}

// Parse strips all tags and returns the clean text with the AS regions sorted by ID.
// Statement 0 is the leaf by convention.
func Parse(text string) (string, []Mark, error) {
	var (
		b     strings.Builder
		stack []openTag
		marks []Mark
	)
	b.Grow(len(text))
	seen := make(map[int]bool)
	for i := 0; i < len(text); {
		kind, id, closing, n, ok := tagAt(text, i)
		if !ok {
			b.WriteByte(text[i])
			i++
			continue
		}
		i += n
		if !closing {
			stack = append(stack, openTag{kind: kind, id: id, at: b.Len()})
			continue
		}
		if len(stack) == 0 {
			return "", nil, fmt.Errorf("%w: </%s:%s> without opening tag", ErrMalformed, kind, id)
		}
		top := stack[len(stack)-1]
		if top.kind != kind || top.id != id {
			return "", nil, fmt.Errorf("%w: </%s:%s> closes <%s:%s>", ErrMalformed, kind, id, top.kind, top.id)
		}
		stack = stack[:len(stack)-1]
		if kind != "AS" {
			continue
		}
		num, err := strconv.Atoi(id)
		if err != nil {
			return "", nil, fmt.Errorf("%w: bad statement id %q", ErrMalformed, id)
		}
		if seen[num] {
			return "", nil, fmt.Errorf("%w: duplicate <AS:%d>", ErrMalformed, num)
		}
		seen[num] = true
		marks = append(marks, Mark{ID: num, Start: top.at, End: b.Len(), Leaf: num == 0})
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return "", nil, fmt.Errorf("%w: <%s:%s> is never closed", ErrMalformed, top.kind, top.id)
	}
	slices.SortFunc(marks, func(a, b Mark) int { return a.ID - b.ID })
	return b.String(), marks, nil
}

// tagAt recognises <AS:id>, </AS:id>, <ER:id> and </ER:id> at offset i.
func tagAt(text string, i int) (kind, id string, closing bool, n int, ok bool) {
	if text[i] != '<' {
		return "", "", false, 0, false
	}
	rest := text[i+1:]
	if strings.HasPrefix(rest, "/") {
		closing = true
		rest = rest[1:]
	}
	switch {
	case strings.HasPrefix(rest, "AS:"):
		kind = "AS"
	case strings.HasPrefix(rest, "ER:"):
		kind = "ER"
	default:
		return "", "", false, 0, false
	}
	rest = rest[3:]
	end := strings.IndexByte(rest, '>')
	if end <= 0 || strings.ContainsAny(rest[:end], " \t\r\n<") {
		return "", "", false, 0, false
	}
	id = rest[:end]
	n = 1 + 3 + end + 1
	if closing {
		n++
	}
	return kind, id, closing, n, true
}

// Leaf marks exactly the statements with the given ids as leaves.
func Leaf(marks []Mark, ids []int) {
	for i := range marks {
		marks[i].Leaf = slices.Contains(ids, marks[i].ID)
	}
}

// Find returns the mark with the given id.
func Find(marks []Mark, id int) (Mark, bool) {
	for _, m := range marks {
		if m.ID == id {
			return m, true
		}
	}
	return Mark{}, false
}

package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCase(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCase(t, dir, "loops/wrap.toml", `
before = '''
class C
{
    void M()
    {
        <AS:0>F();</AS:0>
    }
}
'''
after = '''
class C
{
    void M()
    {
        while (true)
        {
            <AS:0>F();</AS:0>
        }
    }
}
'''
`)
	writeCase(t, dir, "iterators/yield.toml", `
name = "iterator"
before = '''`+iteratorBefore+`
'''
after = '''`+iteratorAfter+`
'''

[[expect]]
code = "InsertAroundActiveStatement"
span = "yield return 1;"
arg = "yield statement"
`)
	writeCase(t, dir, "iterators/wrong.toml", `
before = '''`+iteratorBefore+`
'''
after = '''`+iteratorAfter+`
'''
`)
	writeCase(t, dir, "deleted.toml", `
before = '''
class C { void M() { <AS:0>F();</AS:0> } }
'''
after = ""

[[expect]]
code = "ENC5007"
detached = true
arg = "class"
`)
	writeCase(t, dir, "patched/wrap.toml", `
before_file = "C.cs"
patch_file = "wrap.diff"
`)
	writeCase(t, dir, "patched/C.cs", wrapBefore)
	writeCase(t, dir, "patched/wrap.diff", wrapPatch)
	writeCase(t, dir, "todo.toml", `
skip = "needs semantic model"
before = "class C { }"
after = "class D { }"
`)
	return dir
}

func TestLoadCases(t *testing.T) {
	dir := fixtureDir(t)
	cases, err := LoadCases(dir, nil)
	require.NoError(t, err)

	var names []string
	for _, c := range cases {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"deleted", "iterators/wrong", "iterator", "loops/wrap", "patched/wrap", "todo"}, names)

	patched := cases[4]
	assert.Equal(t, "C.cs", patched.Input.BeforePath)
	assert.Nil(t, patched.Input.After)
	assert.Contains(t, string(patched.Input.Patch), "while (true)")

	deleted := cases[0]
	assert.Empty(t, deleted.Input.After)
	assert.Nil(t, deleted.Input.Patch)
	require.Len(t, deleted.Expect, 1)
	assert.Equal(t, `Delete <detached> "class"`, deleted.Expect[0].String())

	only, err := LoadCases(dir, []string{"iterators/*.toml", "**/yield.toml"})
	require.NoError(t, err)
	assert.Len(t, only, 2)
}

func TestLoadCaseRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "before = \"class C { }\"\nafter = \"\"\nprovider = \"x\"\n"},
		{"after and patch", "before = \"class C { }\"\nafter = \"\"\npatch = \"x\"\n"},
		{"no after", "before = \"class C { }\"\n"},
		{"unknown code", "before = \"\"\nafter = \"\"\n[[expect]]\ncode = \"Explode\"\nspan = \"x\"\n"},
		{"missing span", "before = \"\"\nafter = \"\"\n[[expect]]\ncode = \"Delete\"\n"},
		{"missing file", "before_file = \"nope.cs\"\nafter = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCase(t, dir, "case.toml", tt.body)
			_, err := LoadCase(filepath.Join(dir, "case.toml"))
			require.ErrorIs(t, err, ErrBadCase)
		})
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) last(name string) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out Event
	for _, ev := range r.events {
		if ev.Case == name {
			out = ev
		}
	}
	return out
}

func TestRunCases(t *testing.T) {
	cases, err := LoadCases(fixtureDir(t), nil)
	require.NoError(t, err)

	rec := &recorder{}
	report, err := RunCases(context.Background(), cases, RunOptions{Jobs: 2, Progress: rec})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Errored)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.OK())

	wrong := report.Results[1]
	assert.Equal(t, "iterators/wrong", wrong.Case.Name)
	assert.False(t, wrong.Passed)
	assert.Empty(t, wrong.Expected)
	assert.Equal(t, []string{`InsertAroundActiveStatement "yield return 1;" "yield statement"`}, wrong.Actual)

	assert.Equal(t, StatusFailed, rec.last("iterators/wrong").Status)
	assert.Equal(t, StatusDone, rec.last("iterator").Status)
	assert.Equal(t, StatusDone, rec.last("todo").Status)

	timings := CheckTimings(report)
	assert.Equal(t, 5, timings.Cases)
	require.NotEmpty(t, timings.Phases)
	assert.Equal(t, "load", timings.Phases[0].Name)
}

func TestRunCasesCancelled(t *testing.T) {
	cases, err := LoadCases(fixtureDir(t), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := RunCases(ctx, cases, RunOptions{Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Passed)
}

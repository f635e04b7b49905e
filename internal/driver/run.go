package driver

import (
	"context"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"encrude/internal/diag"
	"encrude/internal/source"
	"encrude/internal/trace"
)

// RunOptions configure RunCases.
type RunOptions struct {
	Pair Options
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Case     *Case
	Pair     *PairResult
	Actual   []string
	Expected []string
	Passed   bool
	Skipped  bool
	// Err is set when the pair could not be analysed; the case counts as errored.
	Err     error
	Elapsed time.Duration
}

// RunReport aggregates a check run. Results keep the order of the input cases.
type RunReport struct {
	Results []CaseResult
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// OK reports whether every case that ran passed.
func (r *RunReport) OK() bool {
	return r != nil && r.Failed == 0 && r.Errored == 0
}

// RunCases analyses cases in parallel and compares their diagnostics with the
// expectations, exactly and in order.
func RunCases(ctx context.Context, cases []*Case, opts RunOptions) (*RunReport, error) {
	report := &RunReport{Results: make([]CaseResult, len(cases))}
	if len(cases) == 0 {
		return report, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	if opts.Pair.Session != "" {
		span.WithExtra("session", opts.Pair.Session)
	}

	for _, c := range cases {
		emit(opts.Progress, Event{Case: c.Name, Status: StatusQueued})
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(cases)))
	for i, c := range cases {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report.Results[i] = runCase(gctx, c, opts)
			return nil
		})
	}
	err := g.Wait()

	for _, r := range report.Results {
		switch {
		case r.Case == nil:
			// не запускался: отмена
		case r.Skipped:
			report.Skipped++
		case r.Err != nil:
			report.Errored++
		case r.Passed:
			report.Passed++
		default:
			report.Failed++
		}
	}
	span.End("")
	emit(opts.Progress, Event{Stage: StageCompare, Status: StatusDone})
	return report, err
}

func runCase(ctx context.Context, c *Case, opts RunOptions) CaseResult {
	res := CaseResult{Case: c}
	if c.Skip != "" {
		res.Skipped = true
		emit(opts.Progress, Event{Case: c.Name, Status: StatusDone})
		return res
	}
	start := time.Now()
	pairOpts := opts.Pair
	userObserver := pairOpts.Observer
	pairOpts.Observer = func(ev PhaseEvent) {
		if ev.Status == PhaseStart {
			emit(opts.Progress, Event{Case: c.Name, Stage: Stage(ev.Name), Status: StatusWorking})
		}
		if userObserver != nil {
			userObserver(ev)
		}
	}

	fs := source.NewFileSetWithBase(filepath.Dir(c.Path))
	pair, err := AnalyzePair(ctx, fs, c.Input, pairOpts)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		emit(opts.Progress, Event{Case: c.Name, Stage: StageAnalyze, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		return res
	}
	res.Pair = pair

	emit(opts.Progress, Event{Case: c.Name, Stage: StageCompare, Status: StatusWorking})
	res.Actual = diag.FormatExpectations(pair.Bag.Items(), pair.FileSet)
	res.Expected = make([]string, 0, len(c.Expect))
	for _, e := range c.Expect {
		res.Expected = append(res.Expected, e.String())
	}
	res.Passed = slices.Equal(res.Actual, res.Expected)

	status := StatusDone
	if !res.Passed {
		status = StatusFailed
	}
	emit(opts.Progress, Event{Case: c.Name, Stage: StageCompare, Status: status, Elapsed: res.Elapsed})
	return res
}

package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/oracle"
	"github.com/theirongolddev/tripcost/internal/report"
	"github.com/theirongolddev/tripcost/internal/source"
	"github.com/theirongolddev/tripcost/internal/txlog"
)

// ProgressFunc is called as classification calls complete.
// current is the number of calls finished so far, total is the total count.
type ProgressFunc func(current, total int)

// RunConfig describes one trip analysis.
type RunConfig struct {
	Trip    model.Trip
	Inputs  []string // files, directories or globs
	Output  string   // report destination
	Rules   Rules
	Columns source.Columns // optional header overrides

	Concurrency int           // concurrent classifier calls; <=0 means GOMAXPROCS
	Timeout     time.Duration // per classifier call; zero means none
}

// Validate checks the configuration before any file is read.
func (c RunConfig) Validate() error {
	switch {
	case c.Trip.Start.IsZero() || c.Trip.End.IsZero():
		return configError("trip start and end dates are required")
	case calendarDay(c.Trip.Start).After(calendarDay(c.Trip.End)):
		return configError("trip start %s is after trip end %s",
			c.Trip.Start.Format("2006-01-02"), c.Trip.End.Format("2006-01-02"))
	case c.Trip.AdvanceMonths < 0:
		return configError("advance booking months must not be negative, got %d", c.Trip.AdvanceMonths)
	case len(c.Inputs) == 0:
		return configError("no input files given")
	case c.Output == "":
		return configError("no output destination given")
	case c.Timeout < 0:
		return configError("classifier timeout must not be negative")
	}
	return nil
}

// FailedFile records a file skipped because of a SourceReadError.
type FailedFile struct {
	Path string
	Err  error
}

// Result holds the output of a run.
type Result struct {
	RunID                  string
	Files                  int
	ProcessedFiles         int
	FailedFiles            []FailedFile
	SkippedRows            int
	Decisions              []model.ClassifiedTransaction // every in-scope row, in input order
	Accepted               []model.ClassifiedTransaction
	Summary                model.Summary
	OracleCalls            int
	ClassificationFailures int
}

// Engine runs the analysis against injected collaborators.
type Engine struct {
	Classifier oracle.CategoryClassifier
	Columns    oracle.ColumnIdentifier // nil means header heuristics only
	Logger     txlog.Logger            // nil discards
	Writer     report.Writer           // nil skips the report
	Progress   ProgressFunc
}

// pending is an in-scope row waiting for a category.
type pending struct {
	txn    model.Transaction
	window model.Window
}

// Run processes every input file and writes the report.
//
// Files that cannot be read or mapped are skipped and listed in
// Result.FailedFiles; if none can be processed ErrAllSourcesFailed is
// returned and nothing is written. A row whose classification fails is
// ignored with reason "Classification failed". Rows are logged and
// aggregated in input order regardless of Concurrency.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if e.Classifier == nil {
		return nil, configError("no category classifier configured")
	}

	res := &Result{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Logger()
	ctx = logger.WithContext(ctx, log)
	sink := e.Logger
	if sink == nil {
		sink = txlog.Discard{}
	}

	files := source.Expand(cfg.Inputs)
	res.Files = len(files)

	var rows []pending
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sink.LogInfo(fmt.Sprintf("Processing file: %s", f.Path))

		fileRows, skipped, err := e.loadFile(ctx, f, cfg, sink)
		if err != nil {
			res.FailedFiles = append(res.FailedFiles, FailedFile{Path: f.Path, Err: err})
			log.Warn().Err(err).Str("file", f.Path).Msg("skipping file")
			sink.LogInfo(fmt.Sprintf("Skipping file %s: %v", f.Path, err))
			continue
		}
		res.ProcessedFiles++
		res.SkippedRows += skipped
		rows = append(rows, fileRows...)
	}

	if res.ProcessedFiles == 0 {
		return res, fmt.Errorf("%w: %d of %d", ErrAllSourcesFailed, len(res.FailedFiles), res.Files)
	}

	categories, errs, calls := e.classifyAll(ctx, cfg, rows)
	res.OracleCalls = calls
	if err := ctx.Err(); err != nil {
		return res, err
	}

	agg := NewAggregator()
	for i, p := range rows {
		ct := model.ClassifiedTransaction{Transaction: p.txn, Window: p.window}
		if errs[i] != nil {
			res.ClassificationFailures++
			ct.Decision = model.Ignore(model.ReasonClassificationFailed)
			log.Warn().Err(errs[i]).
				Str("file", p.txn.Source).
				Int("line", p.txn.Line).
				Msg("classification failed")
		} else {
			ct.Category = categories[i]
			ct.Decision = cfg.Rules.Decide(p.window, ct.Category)
		}

		sink.LogTransaction(ct)
		res.Decisions = append(res.Decisions, ct)
		if ct.Decision.Accepted() {
			res.Accepted = append(res.Accepted, ct)
			agg.Accumulate(ct.Category, ct.Amount)
		}
	}

	summary, err := agg.Finalize()
	if err != nil {
		return res, err
	}
	res.Summary = summary

	log.Info().
		Int("files", res.ProcessedFiles).
		Int("failed_files", len(res.FailedFiles)).
		Int("in_scope", len(rows)).
		Int("accepted", agg.Count()).
		Str("grand_total", summary.GrandTotal.StringFixed(2)).
		Msg("run complete")

	if e.Writer != nil {
		err := e.Writer.WriteReport(ctx, report.Report{
			RunID:       res.RunID,
			Trip:        cfg.Trip,
			Accepted:    res.Accepted,
			Summary:     summary,
			Destination: cfg.Output,
		})
		if err != nil {
			return res, fmt.Errorf("writing report: %w", err)
		}
	}
	return res, nil
}

// loadFile reads one statement, maps its columns and keeps in-scope rows.
// Out-of-scope rows are dropped here so they never reach the classifier.
func (e *Engine) loadFile(ctx context.Context, f source.DiscoveredFile, cfg RunConfig, sink txlog.Logger) ([]pending, int, error) {
	table, err := source.ReadFile(f.Path)
	if err != nil {
		return nil, 0, &SourceReadError{Path: f.Path, Err: err}
	}

	id := e.Columns
	if id == nil {
		id = oracle.HeuristicColumns{}
	}
	cols, err := ResolveColumns(ctx, table.Headers, cfg.Columns, id)
	if err != nil {
		return nil, 0, &SourceReadError{Path: f.Path, Err: err}
	}
	sink.LogInfo(fmt.Sprintf("Relevant columns detected. Using columns %s for Date, %s for Description, %s for Amount",
		cols.Date, cols.Description, cols.Amount))

	txns, skipped, err := table.Transactions(cols)
	if err != nil {
		return nil, 0, &SourceReadError{Path: f.Path, Err: err}
	}

	log := logger.FromContext(ctx)
	for _, s := range skipped {
		log.Warn().Str("file", f.Path).Int("line", s.Line).Str("reason", s.Reason).Msg("skipping row")
	}

	var rows []pending
	for _, t := range txns {
		w := ClassifyWindow(t.Date, cfg.Trip.Start, cfg.Trip.End, cfg.Trip.AdvanceMonths)
		if w == model.OutOfScope {
			continue
		}
		rows = append(rows, pending{txn: t, window: w})
	}
	return rows, len(skipped), nil
}

// classifyAll asks the classifier for every row using a bounded worker pool.
// Results are indexed like rows.
func (e *Engine) classifyAll(ctx context.Context, cfg RunConfig, rows []pending) ([]string, []error, int) {
	categories := make([]string, len(rows))
	errs := make([]error, len(rows))
	if len(rows) == 0 {
		return categories, errs, 0
	}

	numWorkers := cfg.Concurrency
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(rows) {
		numWorkers = len(rows)
	}

	work := make(chan int, len(rows))
	var wg sync.WaitGroup
	var processed, calls atomic.Int64

	for i := range rows {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					errs[idx] = &ClassificationError{Description: rows[idx].txn.Description, Err: ctx.Err()}
				} else {
					calls.Add(1)
					categories[idx], errs[idx] = e.classifyOne(ctx, cfg.Timeout, rows[idx].txn)
				}
				n := processed.Add(1)
				if e.Progress != nil {
					e.Progress(int(n), len(rows))
				}
			}
		}()
	}

	wg.Wait()
	return categories, errs, int(calls.Load())
}

// classifyOne calls the classifier under the per-call timeout. The call runs
// on its own goroutine so a classifier that ignores its context still cannot
// hold up the run.
func (e *Engine) classifyOne(ctx context.Context, timeout time.Duration, t model.Transaction) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type answer struct {
		category string
		err      error
	}
	ch := make(chan answer, 1)
	go func() {
		c, err := e.Classifier.CategorizeExpense(ctx, t.Description, t.Amount)
		ch <- answer{c, err}
	}()

	var a answer
	select {
	case a = <-ch:
	case <-ctx.Done():
		a.err = ctx.Err()
	}

	if a.err == nil && a.category == "" {
		a.err = oracle.ErrEmptyLabel
	}
	if a.err != nil {
		return "", &ClassificationError{Description: t.Description, Err: a.err}
	}
	return a.category, nil
}

package jobs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/agentic-research/gmextract/internal/tree"
	"go.uber.org/zap"
)

// Layout selects how a Result body is rendered.
type Layout int

const (
	// Lines prints one bare value per line.
	Lines Layout = iota
	// Pairs prints NAME/DESC/--- triplets.
	Pairs
)

// Result is the deduplicated, sorted output of one job.
type Result struct {
	Job      string
	Sentinel string
	Layout   Layout
	Lines    []string
	Entries  []tree.Entry
}

// Body renders the lines between the sentinels.
func (r Result) Body() []string {
	if r.Layout == Lines {
		return r.Lines
	}
	body := make([]string, 0, 3*len(r.Entries))
	for _, e := range r.Entries {
		body = append(body, "NAME: "+e.Name, "DESC: "+e.Description, "---")
	}
	return body
}

// Write prints the sentinel-delimited report.
func (r Result) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, r.Sentinel+"_START")
	for _, line := range r.Body() {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw, r.Sentinel+"_END")
	return bw.Flush()
}

// ResultSink receives every successful result, e.g. a report database.
type ResultSink interface {
	WriteResult(r Result) error
}

// Runner executes jobs against one source document.
type Runner struct {
	// Source loads the document. It is called once per job; callers that
	// run several jobs may memoize it.
	Source func() (tree.Node, error)
	// Scope optionally narrows the traversal root with a JSONPath selector.
	// Jobs marked Unscoped ignore it.
	Scope  string
	Out    io.Writer
	Sink   ResultSink
	Logger *zap.Logger
}

// Run executes job and writes its report. Any failure inside the job,
// including a panic, is reported as a single "Error: ..." line and Run
// returns normally with ok false.
func (r *Runner) Run(job Job) (res Result, ok bool) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	defer func() {
		if p := recover(); p != nil {
			log.Debug("job panicked", zap.String("job", job.Name), zap.Any("panic", p))
			r.fail(fmt.Errorf("%v", p))
			res, ok = Result{}, false
		}
	}()

	res, err := r.extract(job)
	if err != nil {
		log.Debug("job failed", zap.String("job", job.Name), zap.Error(err))
		r.fail(err)
		return Result{}, false
	}

	if err := res.Write(r.Out); err != nil {
		log.Warn("write report", zap.String("job", job.Name), zap.Error(err))
		return res, false
	}
	if r.Sink != nil {
		if err := r.Sink.WriteResult(res); err != nil {
			log.Warn("export result", zap.String("job", job.Name), zap.Error(err))
		}
	}
	log.Debug("job done", zap.String("job", job.Name), zap.Int("lines", len(res.Body())))
	return res, true
}

func (r *Runner) extract(job Job) (Result, error) {
	root, err := r.Source()
	if err != nil {
		return Result{}, err
	}
	if r.Scope != "" && !job.Unscoped {
		if root, err = tree.Select(root, r.Scope); err != nil {
			return Result{}, err
		}
	}
	res := job.Extract(root)
	res.Job = job.Name
	res.Sentinel = job.Sentinel
	return res, nil
}

func (r *Runner) fail(err error) {
	fmt.Fprintf(r.Out, "Error: %v\n", err)
}

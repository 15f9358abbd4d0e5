package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/schooljs/object"
)

// DefaultTestTimeout bounds a single test body when the program does not
// choose its own limit.
const DefaultTestTimeout = 5 * time.Second

// TestRecord is the outcome of one executed test.
type TestRecord struct {
	Description string
	Failed      bool
	Error       string
}

// SummaryResult is a rendered test report. Lines holds the plain report
// lines for hosts that render the report themselves. When styled rendering
// was requested, Output is colorized and Styles names the color applied to
// each line; otherwise Output is the plain text and Styles is empty.
type SummaryResult struct {
	Output  string
	Lines   []string
	Styles  []string
	Records []TestRecord
}

// Session accumulates test outcomes between an enableTests call and the
// summary that reports them. A Session may be shared by several Runtimes
// and is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	enabled bool
	timeout time.Duration
	records []TestRecord
}

// NewSession returns a Session with testing disabled.
func NewSession() *Session {
	return &Session{timeout: DefaultTestTimeout}
}

// EnableTests turns test collection on or off. Turning it on discards any
// previously recorded outcomes so each run starts from a clean report. A
// timeout of zero keeps the default limit.
func (s *Session) EnableTests(enabled bool, timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	s.records = nil
	if timeout > 0 {
		s.timeout = timeout
	}
}

// Enabled reports whether the session is collecting test outcomes.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Timeout returns the per-test time limit.
func (s *Session) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// Records returns a copy of the outcomes recorded so far.
func (s *Session) Records() []TestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]TestRecord, len(s.records))
	copy(records, s.records)
	return records
}

func (s *Session) record(rec TestRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Test runs one named test through the Runtime. When the session has
// testing disabled the body is not executed at all, so a program full of
// test declarations costs nothing outside a test run. The body is a
// schooljs function of no arguments; it fails by raising an error and
// passes by returning. A body that outruns the session time limit is
// recorded as a distinct timeout failure.
func (r *Runtime) Test(ctx context.Context, description string, body object.Object) error {
	if !r.session.Enabled() {
		return nil
	}
	if r.caller == nil {
		return internalErrorf("test invoked without an installed caller")
	}
	testCtx, cancel := context.WithTimeout(ctx, r.session.Timeout())
	defer cancel()

	run := func(ctx context.Context) error {
		_, err := r.caller(ctx, body)
		return err
	}

	var err error
	if r.runner != nil {
		err = r.runner.RunTest(testCtx, run)
	} else {
		done := make(chan error, 1)
		go func() {
			done <- run(testCtx)
		}()
		select {
		case err = <-done:
		case <-testCtx.Done():
			err = testCtx.Err()
		}
	}

	rec := TestRecord{Description: description}
	if err != nil {
		rec.Failed = true
		if errors.Is(err, context.DeadlineExceeded) {
			rec.Error = fmt.Sprintf("time limit exceeded (%s)", r.session.Timeout())
		} else {
			rec.Error = err.Error()
		}
	}
	r.session.record(rec)
	return nil
}

// Assert fails the enclosing test unless its argument is the boolean
// true. Any non-boolean argument is an error rather than a failed
// assertion, so a test cannot accidentally pass a truthy non-boolean.
func (r *Runtime) Assert(value object.Object) (object.Object, error) {
	b, ok := value.(*object.Bool)
	if !ok {
		return nil, &Error{Kind: ErrAssertion, Message: "assertion argument must be a boolean"}
	}
	if !b.Value() {
		return nil, &Error{Kind: ErrAssertion, Message: "assertion failed"}
	}
	return object.True, nil
}

// Summary renders the report for every test recorded since testing was
// enabled, then disables testing so the next report starts fresh. Calling
// it with testing disabled is an error.
func (r *Runtime) Summary(styled bool) (*SummaryResult, error) {
	return r.session.Summary(styled)
}

// Summary renders and consumes the session's report. Styles is populated
// and Output colorized only when styled rendering is requested.
func (s *Session) Summary(styled bool) (*SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return nil, safetyErrorf("summary called before tests were enabled")
	}

	result := &SummaryResult{Records: append([]TestRecord(nil), s.records...)}
	var styles []string
	passed := 0
	for _, rec := range s.records {
		if rec.Failed {
			result.Lines = append(result.Lines,
				fmt.Sprintf(" FAILED %s\n         %s", rec.Description, rec.Error))
			styles = append(styles, "red")
		} else {
			passed++
			result.Lines = append(result.Lines, fmt.Sprintf(" OK     %s", rec.Description))
			styles = append(styles, "green")
		}
	}
	total := len(s.records)
	tally := fmt.Sprintf("Tests: %d passed / %d total", passed, total)
	result.Lines = append(result.Lines, tally)
	if passed == total {
		styles = append(styles, "green")
	} else {
		styles = append(styles, "red")
	}

	for i, line := range result.Lines {
		if styled {
			result.Output += colorize(styles[i], line) + "\n"
		} else {
			result.Output += line + "\n"
		}
	}
	if styled {
		result.Styles = styles
	}

	s.enabled = false
	s.records = nil
	return result, nil
}

func colorize(style, line string) string {
	switch style {
	case "red":
		return color.RedString("%s", line)
	case "green":
		return color.GreenString("%s", line)
	default:
		return line
	}
}

// Package txlog records the decision taken for every in-scope transaction.
package txlog

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
)

// Logger receives transaction decisions and progress messages.
type Logger interface {
	LogTransaction(t model.ClassifiedTransaction)
	LogInfo(msg string)
}

// Discard drops everything.
type Discard struct{}

func (Discard) LogTransaction(model.ClassifiedTransaction) {}
func (Discard) LogInfo(string)                             {}

// FormatLine renders a decision as
// date|description|$amount|category|status[|reason].
func FormatLine(t model.ClassifiedTransaction) string {
	fields := []string{
		t.Date.Format(cli.DateLayout),
		t.Description,
		"$" + t.Amount.StringFixed(2),
		categoryOrDash(t.Category),
		string(t.Decision.Status),
	}
	if t.Decision.Reason != "" {
		fields = append(fields, t.Decision.Reason)
	}
	return strings.Join(fields, "|")
}

func categoryOrDash(c string) string {
	if c == "" {
		return "-"
	}
	return c
}

// Console writes one line per decision. With color on, the status field is
// styled (Accepted green, Ignored orange).
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsole creates a console sink.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// LogTransaction writes the decision line.
func (c *Console) LogTransaction(t model.ClassifiedTransaction) {
	line := FormatLine(t)
	if c.color {
		status := string(t.Decision.Status)
		styled := cli.Money(status)
		if !t.Decision.Accepted() {
			styled = cli.Warn(status)
		}
		prefix := strings.Join([]string{
			t.Date.Format(cli.DateLayout),
			t.Description,
			"$" + t.Amount.StringFixed(2),
			cli.Category(categoryOrDash(t.Category)),
		}, "|")
		line = prefix + "|" + styled
		if t.Decision.Reason != "" {
			line += "|" + cli.Muted(t.Decision.Reason)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

// LogInfo writes msg on its own line.
func (c *Console) LogInfo(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.color {
		msg = cli.Muted(msg)
	}
	fmt.Fprintln(c.w, msg)
}

// Structured emits one zerolog event per decision.
type Structured struct {
	log zerolog.Logger
}

// NewStructured creates a structured sink on log.
func NewStructured(log zerolog.Logger) *Structured {
	return &Structured{log: log}
}

// LogTransaction emits the decision at info level, or warn when
// classification failed.
func (s *Structured) LogTransaction(t model.ClassifiedTransaction) {
	ev := s.log.Info()
	if t.Decision.Reason == model.ReasonClassificationFailed {
		ev = s.log.Warn()
	}
	ev.Str("date", t.Date.Format(cli.DateLayout)).
		Str("description", t.Description).
		Str("amount", t.Amount.StringFixed(2)).
		Str("category", t.Category).
		Str("window", t.Window.String()).
		Str("status", string(t.Decision.Status)).
		Str("reason", t.Decision.Reason).
		Str("source", t.Source).
		Int("line", t.Line).
		Msg("transaction")
}

// LogInfo emits msg at info level.
func (s *Structured) LogInfo(msg string) {
	s.log.Info().Msg(msg)
}

// Multi fans out to several sinks in order.
type Multi []Logger

func (m Multi) LogTransaction(t model.ClassifiedTransaction) {
	for _, l := range m {
		if l != nil {
			l.LogTransaction(t)
		}
	}
}

func (m Multi) LogInfo(msg string) {
	for _, l := range m {
		if l != nil {
			l.LogInfo(msg)
		}
	}
}

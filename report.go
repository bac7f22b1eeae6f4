package shadepbr

import (
	"context"
	"log/slog"
)

// Reporter receives export diagnostics. Rank is an indentation hint for nested steps.
type Reporter interface {
	Message(msg string, rank int)
	Warning(msg string, rank int)
	Error(msg string, rank int)
}

// IssueLevel represents severity of a reported issue.
type IssueLevel string

const (
	// IssueMessage indicates an informational progress message.
	IssueMessage IssueLevel = "message"
	// IssueWarning indicates a non-fatal consistency warning.
	IssueWarning IssueLevel = "warning"
	// IssueError indicates a failure of one unit of work.
	IssueError IssueLevel = "error"
)

// Issue represents a reported or validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Path to the affected resource
	Rank    int        `json:"rank,omitempty" yaml:"rank,omitempty"` // Indentation hint
}

// IssueLog collects reported diagnostics in order.
type IssueLog struct {
	issues []Issue
}

var _ Reporter = (*IssueLog)(nil)

// Message records an informational message.
func (l *IssueLog) Message(msg string, rank int) { l.add(IssueMessage, msg, rank) }

// Warning records a warning.
func (l *IssueLog) Warning(msg string, rank int) { l.add(IssueWarning, msg, rank) }

// Error records an error.
func (l *IssueLog) Error(msg string, rank int) { l.add(IssueError, msg, rank) }

// Issues returns recorded issues.
func (l *IssueLog) Issues() []Issue { return l.issues }

// Count returns the number of recorded issues with the given level.
func (l *IssueLog) Count(level IssueLevel) int {
	n := 0
	for _, it := range l.issues {
		if it.Level == level {
			n++
		}
	}

	return n
}

// Filter returns recorded issues with the given level.
func (l *IssueLog) Filter(level IssueLevel) []Issue {
	var out []Issue
	for _, it := range l.issues {
		if it.Level == level {
			out = append(out, it)
		}
	}

	return out
}

func (l *IssueLog) add(level IssueLevel, msg string, rank int) {
	l.issues = append(l.issues, Issue{Level: level, Message: msg, Rank: rank})
}

// LogReporter forwards diagnostics to a slog.Logger.
type LogReporter struct {
	Logger *slog.Logger
}

var _ Reporter = LogReporter{}

// NewLogReporter creates a LogReporter. A nil logger uses the package Logger.
func NewLogReporter(l *slog.Logger) LogReporter {
	if l == nil {
		l = Logger()
	}
	return LogReporter{Logger: l}
}

// Message logs msg at info level.
func (r LogReporter) Message(msg string, rank int) { r.log(slog.LevelInfo, msg, rank) }

// Warning logs msg at warn level.
func (r LogReporter) Warning(msg string, rank int) { r.log(slog.LevelWarn, msg, rank) }

// Error logs msg at error level.
func (r LogReporter) Error(msg string, rank int) { r.log(slog.LevelError, msg, rank) }

func (r LogReporter) log(level slog.Level, msg string, rank int) {
	l := r.Logger
	if l == nil {
		l = Logger()
	}
	l.LogAttrs(context.Background(), level, msg, slog.Int("rank", rank))
}

// multiReporter fans out to several reporters.
type multiReporter []Reporter

// MultiReporter returns a Reporter that forwards to every non-nil reporter.
func MultiReporter(reps ...Reporter) Reporter {
	out := make(multiReporter, 0, len(reps))
	for _, r := range reps {
		if r != nil {
			out = append(out, r)
		}
	}

	return out
}

func (m multiReporter) Message(msg string, rank int) {
	for _, r := range m {
		r.Message(msg, rank)
	}
}

func (m multiReporter) Warning(msg string, rank int) {
	for _, r := range m {
		r.Warning(msg, rank)
	}
}

func (m multiReporter) Error(msg string, rank int) {
	for _, r := range m {
		r.Error(msg, rank)
	}
}

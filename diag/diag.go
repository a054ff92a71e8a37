// Package diag implements the resolver's diagnostic sink: an append-only,
// multi-status accumulator handed back to the caller of a resolve pass, plus the
// structured trace logging behind the "registry/debug/resolve" toggle.
package diag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Severity mirrors the three-level scheme from eclipse.platform.runtime §7.
type Severity uint8

const (
	// Warning is recoverable and does not, by itself, abort the calling
	// branch of resolution.
	Warning Severity = iota
	// MustResolve marks a fault that forces the triggering branch to roll
	// back or a descriptor to be disabled.
	MustResolve
	// CannotResolve marks a global fault (no roots discoverable).
	CannotResolve
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case MustResolve:
		return "must-resolve"
	case CannotResolve:
		return "cannot-resolve"
	default:
		return "unknown"
	}
}

// Kind enumerates the diagnostic message identifiers from
// eclipse.platform.runtime §6. These are stable identifiers, not message
// text — formatting lives in Diagnostic.Error.
type Kind string

const (
	KindFragmentMissingAttr  Kind = "parse.fragmentMissingAttr"
	KindFragmentMissingID    Kind = "parse.fragmentMissingIdName"
	KindMissingFragmentPD    Kind = "parse.missingFragmentPd"
	KindPluginMissingAttr    Kind = "parse.pluginMissingAttr"
	KindPluginMissingIDName  Kind = "parse.pluginMissingIdName"
	KindPrereqDisabled       Kind = "parse.prereqDisabled"
	KindPrereqLoop           Kind = "parse.prereqLoop"
	KindUnsatisfiedPrereq    Kind = "parse.unsatisfiedPrereq"
	KindExtPointUnknown      Kind = "parse.extPointUnknown"
	KindExtPointDisabled     Kind = "parse.extPointDisabled"
	KindUnableToResolve      Kind = "plugin.unableToResolve"
)

// Diagnostic is a single recorded fault or trace line.
type Diagnostic struct {
	Kind          Kind
	Severity      Severity
	Message       string
	PluginID      string
	PluginVersion string
	Correlation   uuid.UUID
}

func (d Diagnostic) Error() string {
	if d.PluginID == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s@%s: %s", d.Kind, d.PluginID, d.PluginVersion, d.Message)
}

// Status is the append-only result of one resolve() invocation. It is
// returned as a *Status; callers that want to treat it as an error can use
// AsError, which folds every MustResolve/CannotResolve diagnostic into a
// multierror.Error.
type Status struct {
	Correlation uuid.UUID
	diags       []Diagnostic
}

// NewStatus starts an empty, OK status tagged with a fresh correlation id
// for this resolve pass.
func NewStatus() *Status {
	return &Status{Correlation: uuid.New()}
}

// Add appends a diagnostic to the status, stamping it with the status's
// correlation id if the caller left it zero.
func (s *Status) Add(d Diagnostic) {
	if d.Correlation == uuid.Nil {
		d.Correlation = s.Correlation
	}
	s.diags = append(s.diags, d)
}

// Diagnostics returns the diagnostics recorded so far, in production order.
func (s *Status) Diagnostics() []Diagnostic {
	return s.diags
}

// OK reports whether no diagnostic was produced at all (§8 invariant 7).
func (s *Status) OK() bool {
	return len(s.diags) == 0
}

// AsError folds every MustResolve/CannotResolve-severity diagnostic into a
// multierror, returning nil if none qualify (warnings alone do not make a
// Status an error).
func (s *Status) AsError() error {
	var merr *multierror.Error
	for _, d := range s.diags {
		if d.Severity == Warning {
			continue
		}
		merr = multierror.Append(merr, d)
	}
	if merr == nil {
		return nil
	}
	return merr.ErrorOrNil()
}

// Logger is the structured trace sink used when the "registry/debug/resolve"
// toggle is enabled. It wraps a *logrus.Entry carrying the active
// correlation id.
type Logger struct {
	entry   *logrus.Entry
	enabled bool
}

// NewLogger builds a Logger for the given correlation id. enabled controls
// whether trace lines are actually emitted; when false, every method is a
// no-op so call sites don't need to guard themselves.
func NewLogger(correlation uuid.UUID, enabled bool) *Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	return &Logger{
		entry:   l.WithField("resolve_id", correlation.String()),
		enabled: enabled,
	}
}

// Tracef logs a formatted trace line at debug level.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if !l.enabled {
		return
	}
	l.entry.Debugf(format, args...)
}

// EnabledFromProperty interprets the platform's "registry/debug/resolve"
// property convention: case-insensitive "true" enables tracing, anything
// else (including absence) disables it.
func EnabledFromProperty(value string) bool {
	return strings.EqualFold(value, "true")
}

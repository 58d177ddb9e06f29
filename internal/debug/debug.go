package debug

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	channelKey     = "channel"
	indentationKey = "indentation"

	indentationUnit = "    "

	// Bullet prefixes list items in the log.
	Bullet = "•"
)

// Level is the debugging level a message requires before it is printed.
type Level uint

const (
	Basic Level = iota
	Verbose
)

// Indentation is applied before or after a message is printed.
type Indentation uint

const (
	None Indentation = iota
	Indent
	Unindent
	Reset
)

type entryOptions struct {
	min    Level
	before Indentation
	after  Indentation
}

// Option tunes a single log call.
type Option func(*entryOptions)

// VerboseOnly makes a message require the verbose debugging level.
var VerboseOnly Option = func(o *entryOptions) { o.min = Verbose }

// Before applies an indentation change before the message is printed.
func Before(i Indentation) Option {
	return func(o *entryOptions) { o.before = i }
}

// After applies an indentation change after the message is printed.
func After(i Indentation) Option {
	return func(o *entryOptions) { o.after = i }
}

// Logger prints channel-tagged, indented debug output. It is safe for
// concurrent use.
type Logger struct {
	mu         sync.Mutex
	out        *logrus.Logger
	enabled    bool
	level      Level
	assertions bool
	profiling  bool
	depth      int
	processes  []string
}

// New creates a Logger writing to w with the console formatter.
func New(w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&Formatter{})
	return NewWithLogger(l)
}

// NewWithLogger wraps an existing logrus logger. The logrus level is opened
// fully; filtering is done by the channel and debugging level.
func NewWithLogger(l *logrus.Logger) *Logger {
	l.SetLevel(logrus.TraceLevel)
	return &Logger{out: l, enabled: true, level: Basic}
}

// Default creates a Logger writing to stdout.
func Default() *Logger {
	return New(os.Stdout)
}

func (l *Logger) SetEnabled(v bool) {
	l.mu.Lock()
	l.enabled = v
	l.mu.Unlock()
}

func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *Logger) SetLevel(v Level) {
	l.mu.Lock()
	l.level = v
	l.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetAssertions controls whether Assert reports failures as errors.
func (l *Logger) SetAssertions(v bool) {
	l.mu.Lock()
	l.assertions = v
	l.mu.Unlock()
}

func (l *Logger) Assertions() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.assertions
}

func (l *Logger) SetProfiling(v bool) {
	l.mu.Lock()
	l.profiling = v
	l.mu.Unlock()
}

func (l *Logger) Profiling() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profiling
}

// Depth returns the current indentation depth.
func (l *Logger) Depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth
}

func (l *Logger) Indent(opts ...Option) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < resolve(opts).min {
		return
	}
	l.apply(Indent)
}

func (l *Logger) Unindent(opts ...Option) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < resolve(opts).min {
		return
	}
	l.apply(Unindent)
}

func (l *Logger) ResetIndentation(opts ...Option) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < resolve(opts).min {
		return
	}
	l.apply(Reset)
}

// apply must be called with l.mu held.
func (l *Logger) apply(i Indentation) {
	switch i {
	case Indent:
		l.depth++
	case Unindent:
		if l.depth--; l.depth < 0 {
			l.depth = 0
		}
	case Reset:
		l.depth = 0
	}
}

func resolve(opts []Option) entryOptions {
	var o entryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (l *Logger) log(ch Channel, msg string, opts []Option) {
	o := resolve(opts)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled && ch < Warning {
		return
	}
	if l.level < o.min {
		return
	}

	l.apply(o.before)
	l.out.WithFields(logrus.Fields{
		channelKey:     ch,
		indentationKey: strings.Repeat(indentationUnit, l.depth),
	}).Log(ch.level(), msg)
	l.apply(o.after)
}

func (l *Logger) Info(msg string, opts ...Option)     { l.log(Info, msg, opts) }
func (l *Logger) Debug(msg string, opts ...Option)    { l.log(Debug, msg, opts) }
func (l *Logger) Test(msg string, opts ...Option)     { l.log(Test, msg, opts) }
func (l *Logger) Program(msg string, opts ...Option)  { l.log(Program, msg, opts) }
func (l *Logger) Warning(msg string, opts ...Option)  { l.log(Warning, msg, opts) }
func (l *Logger) Error(msg string, opts ...Option)    { l.log(Error, msg, opts) }
func (l *Logger) Critical(msg string, opts ...Option) { l.log(Critical, msg, opts) }

// NewLine prints an empty, untimed line.
func (l *Logger) NewLine() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.WithField(channelKey, Blank).Log(logrus.InfoLevel, "")
}

// ProcessStart logs "<name>..." and indents until the matching ProcessEnd.
func (l *Logger) ProcessStart(name string, opts ...Option) {
	l.mu.Lock()
	l.processes = append(l.processes, name)
	l.mu.Unlock()

	l.Debug(name+"...", append(opts, After(Indent))...)
}

// ProcessEnd closes the innermost process started with ProcessStart.
func (l *Logger) ProcessEnd(successful bool, opts ...Option) {
	l.mu.Lock()
	name := ""
	if n := len(l.processes); n > 0 {
		name = l.processes[n-1]
		l.processes = l.processes[:n-1]
	}
	l.mu.Unlock()

	result := "successfully"
	if !successful {
		result = "unsuccessfully"
	}
	l.Debug(name+" finished "+result, append(opts, Before(Unindent))...)
}

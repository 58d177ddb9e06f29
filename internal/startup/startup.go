// Package startup turns the raw command line into debugging options.
package startup

import (
	"bufio"
	"fmt"
	"io"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

const (
	DebugFlag       = "-debug"
	VerboseFlag     = "-verbose"
	HoldConsoleFlag = "-holdConsole"
	UnsafeFlag      = "-unsafe"
	ProfileFlag     = "-profile"
)

// Parameters are the startup options. Everything but Debug requires Debug.
type Parameters struct {
	Debug       bool
	Verbose     bool
	HoldConsole bool
	Assertions  bool
	Profiling   bool
}

// Message is logged once the logger has been configured.
type Message struct {
	Text    string
	Warning bool
}

// Parse reads the flags in args. Unknown arguments and options given without
// -debug are reported as warnings and otherwise ignored.
func Parse(args []string) (Parameters, []Message) {
	var (
		p    Parameters
		msgs []Message
	)
	var verbose, hold, unsafe, profile bool
	for _, arg := range args {
		switch arg {
		case DebugFlag:
			p.Debug = true
		case VerboseFlag:
			verbose = true
		case HoldConsoleFlag:
			hold = true
		case UnsafeFlag:
			unsafe = true
		case ProfileFlag:
			profile = true
		default:
			msgs = append(msgs, Message{Text: fmt.Sprintf("Unrecognised argument '%s'; ignoring", arg), Warning: true})
		}
	}

	dependent := []struct {
		set  bool
		flag string
		dst  *bool
		msg  string
	}{
		{verbose, VerboseFlag, &p.Verbose, "Debugging level set to verbose"},
		{hold, HoldConsoleFlag, &p.HoldConsole, "Console will be held at game end"},
		{unsafe, UnsafeFlag, &p.Assertions, "Assertions enabled"},
		{profile, ProfileFlag, &p.Profiling, "Profiling enabled"},
	}
	for _, d := range dependent {
		if !d.set {
			continue
		}
		if !p.Debug {
			msgs = append(msgs, Message{
				Text:    fmt.Sprintf("The argument '%s' requires '%s' to also be used; this option will be ignored", d.flag, DebugFlag),
				Warning: true,
			})
			continue
		}
		*d.dst = true
		msgs = append(msgs, Message{Text: d.msg})
	}
	return p, msgs
}

// Apply configures log from p and prints the messages gathered by Parse.
func (p Parameters) Apply(log *debug.Logger, msgs []Message) {
	log.SetEnabled(p.Debug)
	if p.Verbose {
		log.SetLevel(debug.Verbose)
	}
	log.SetAssertions(p.Assertions)
	log.SetProfiling(p.Profiling)

	log.ProcessStart("Parsing arguments")
	for _, m := range msgs {
		if m.Warning {
			log.Warning(m.Text)
		} else {
			log.Debug(debug.Bullet + " " + m.Text)
		}
	}
	log.ProcessEnd(true)
}

func Greet(log *debug.Logger) {
	log.NewLine()
	log.Program("--------------------[  HELLO!  ]--------------------")
}

// Farewell prints the closing banner. With debugging on and hold set it
// first waits for a line on in.
func Farewell(log *debug.Logger, p Parameters, in io.Reader) {
	if p.Debug && p.HoldConsole && in != nil {
		log.Program("Press enter to exit.")
		_, _ = bufio.NewReader(in).ReadString('\n')
	}
	log.Program("--------------------[ GOODBYE! ]--------------------")
}

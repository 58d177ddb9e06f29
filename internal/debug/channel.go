package debug

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Channel tags a log line with its origin.
type Channel int

// Channels are ordered by severity; everything from Warning on is printed
// even when debugging is disabled.
const (
	Info Channel = iota
	Debug
	Test
	Program
	Warning
	Error
	Critical
	Blank
)

func (c Channel) Tag() string {
	switch c {
	case Info:
		return "¦     INFO ¦"
	case Debug:
		return "¦    DEBUG ¦"
	case Test:
		return "¦     TEST ¦"
	case Program:
		return "¦  PROGRAM ¦"
	case Warning:
		return "¦  WARNING ¦"
	case Error:
		return "¦    ERROR ¦"
	case Critical:
		return "¦ CRITICAL ¦"
	case Blank:
		return "¦          ¦"
	}
	return fmt.Sprintf("¦ %8d ¦", int(c))
}

func (c Channel) String() string {
	switch c {
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Test:
		return "test"
	case Program:
		return "program"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Critical:
		return "critical"
	}
	return "none"
}

func (c Channel) level() logrus.Level {
	switch c {
	case Debug, Test:
		return logrus.DebugLevel
	case Warning:
		return logrus.WarnLevel
	case Error, Critical:
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

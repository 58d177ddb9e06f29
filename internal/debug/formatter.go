package debug

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

const emptyTimestamp = "             "

// Formatter renders entries as "<tag> hh:mm:ss::mmm > <indent><message>".
type Formatter struct{}

func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	ch, ok := e.Data[channelKey].(Channel)
	if !ok {
		ch = channelFor(e.Level)
	}
	indentation, _ := e.Data[indentationKey].(string)

	var b bytes.Buffer
	if ch == Blank {
		fmt.Fprintf(&b, "%s %s >\n", ch.Tag(), emptyTimestamp)
		return b.Bytes(), nil
	}

	t := e.Time
	fmt.Fprintf(&b, "%s %02d:%02d:%02d::%03d > %s%s\n",
		ch.Tag(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6, indentation, e.Message)
	return b.Bytes(), nil
}

// channelFor maps entries logged straight through logrus onto a channel.
func channelFor(l logrus.Level) Channel {
	switch l {
	case logrus.TraceLevel, logrus.DebugLevel:
		return Debug
	case logrus.WarnLevel:
		return Warning
	case logrus.ErrorLevel:
		return Error
	case logrus.FatalLevel, logrus.PanicLevel:
		return Critical
	}
	return Info
}

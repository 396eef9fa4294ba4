package fractal

import "time"

// FoldLogEvent describes one Fold, FoldInto or Absorb call.
type FoldLogEvent struct {
	Operation string
	Label     string
	Inputs    int
	Parts     int
	Fields    int
	Duration  time.Duration
	Err       error
	// HookErr holds errors returned by activity hooks. They never fail the
	// fold itself.
	HookErr error
}

// FoldLogger records fold events.
type FoldLogger interface {
	LogFold(FoldLogEvent)
}

// FoldLoggerFunc adapts a function to FoldLogger.
type FoldLoggerFunc func(FoldLogEvent)

// LogFold implements FoldLogger.
func (f FoldLoggerFunc) LogFold(event FoldLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopFoldLogger struct{}

func (noopFoldLogger) LogFold(FoldLogEvent) {}

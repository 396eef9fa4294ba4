// Package logging adapts fold events to structured loggers.
package logging

import (
	"github.com/rs/zerolog"

	fractal "github.com/goliatone/go-fractal"
)

// Zerolog writes fold and evaluation events to a zerolog logger. Successful
// operations log at debug level and failures at error level. Hook failures
// log at warn level.
type Zerolog struct {
	Logger zerolog.Logger
}

// NewZerolog returns a logger usable as both fractal.FoldLogger and
// fractal.EvaluatorLogger.
func NewZerolog(logger zerolog.Logger) Zerolog {
	return Zerolog{Logger: logger}
}

// LogFold implements fractal.FoldLogger.
func (z Zerolog) LogFold(event fractal.FoldLogEvent) {
	entry := z.Logger.Debug()
	if event.Err != nil {
		entry = z.Logger.Error().Err(event.Err)
	} else if event.HookErr != nil {
		entry = z.Logger.Warn().AnErr("hook_error", event.HookErr)
	}
	if event.Label != "" {
		entry = entry.Str("label", event.Label)
	}
	entry.
		Str("operation", event.Operation).
		Int("inputs", event.Inputs).
		Int("parts", event.Parts).
		Int("fields", event.Fields).
		Dur("duration", event.Duration).
		Msg("fractal fold")
}

// LogEvaluation implements fractal.EvaluatorLogger.
func (z Zerolog) LogEvaluation(event fractal.EvaluatorLogEvent) {
	entry := z.Logger.Debug()
	if event.Err != nil {
		entry = z.Logger.Error().Err(event.Err)
	}
	entry.
		Str("engine", event.Engine).
		Str("expr", event.Expr).
		Int("part", event.Part).
		Bool("matched", event.Matched).
		Dur("duration", event.Duration).
		Msg("fractal select")
}

var (
	_ fractal.FoldLogger      = Zerolog{}
	_ fractal.EvaluatorLogger = Zerolog{}
)

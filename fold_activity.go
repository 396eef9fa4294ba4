package fractal

import (
	"context"

	"github.com/goliatone/go-fractal/pkg/activity"
	"github.com/google/uuid"
)

// WithActivityHooks emits a fractal.folded or fractal.fold.failed event to
// hooks after every fold. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *foldConfig) {
		cfg.activityHooks = normalized
		cfg.activity.Enabled = len(normalized) > 0
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *foldConfig) {
		cfg.activity.Channel = channel
	}
}

func (cfg foldConfig) emitActivity(event FoldLogEvent, result *Record) error {
	emitter := activity.NewEmitter(cfg.activityHooks, cfg.activity)
	if !emitter.Enabled() {
		return nil
	}
	input := activity.FoldEventInput{
		FoldID:    uuid.NewString(),
		Operation: event.Operation,
		Label:     event.Label,
		Inputs:    event.Inputs,
		Parts:     event.Parts,
		Fields:    result.Fields(),
		FieldPath: fieldPathOf(event.Err),
		Err:       event.Err,
	}
	if event.Err != nil {
		return emitter.Emit(context.Background(), activity.BuildFoldFailedEvent(input))
	}
	return emitter.Emit(context.Background(), activity.BuildFoldedEvent(input))
}

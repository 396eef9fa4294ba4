package activity

import (
	"strings"
	"time"
)

const (
	// VerbFolded marks a successful fold.
	VerbFolded = "fractal.folded"
	// VerbFoldFailed marks a fold that returned an error.
	VerbFoldFailed = "fractal.fold.failed"
	// ObjectTypeFold is the object type of every fold event.
	ObjectTypeFold = "fractal.fold"
)

// FoldEventInput describes the common fields of fold lifecycle events.
type FoldEventInput struct {
	FoldID     string
	Operation  string
	Label      string
	Inputs     int
	Parts      int
	Fields     []string
	FieldPath  string
	Err        error
	ActorID    string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildFoldedEvent constructs the event emitted after a successful fold.
func BuildFoldedEvent(input FoldEventInput) Event {
	return buildFoldEvent(VerbFolded, input)
}

// BuildFoldFailedEvent constructs the event emitted when a fold fails.
func BuildFoldFailedEvent(input FoldEventInput) Event {
	return buildFoldEvent(VerbFoldFailed, input)
}

func buildFoldEvent(verb string, input FoldEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["inputs"] = input.Inputs
	metadata["parts"] = input.Parts
	if input.Operation != "" {
		metadata["operation"] = input.Operation
	}
	if input.Label != "" {
		metadata["label"] = input.Label
	}
	if len(input.Fields) > 0 {
		metadata["fields"] = append([]string{}, input.Fields...)
	}
	if input.FieldPath != "" {
		metadata["field_path"] = input.FieldPath
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}

	objectID := strings.TrimSpace(input.FoldID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Label)
	}
	if objectID == "" {
		objectID = ObjectTypeFold
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeFold,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

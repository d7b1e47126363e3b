package service

import (
	"context"

	"mew/events"
)

// emit delivers event when the service was given an emitter
func emit(ctx context.Context, emitter EventEmitter, event events.Event) {
	if emitter != nil {
		emitter.Emit(ctx, event)
	}
}

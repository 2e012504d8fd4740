package logs

import "context"

// Stream names an animation stream or widget in log records.
type Stream string

type streamKey struct{}

var StreamKey = streamKey{}

func WithStream(ctx context.Context, stream Stream) context.Context {
	return context.WithValue(ctx, StreamKey, stream)
}

func StreamOf(ctx context.Context) (Stream, bool) {
	stream, ok := ctx.Value(StreamKey).(Stream)
	return stream, ok
}

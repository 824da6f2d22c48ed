package cart

import "context"

type contextKey string

const contextKeySession contextKey = "voice_session_id"

// WithSessionID tags reconciliation events with the voice session that
// triggered them.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeySession, id)
}

func SessionIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeySession).(string); ok {
		return id
	}
	return ""
}

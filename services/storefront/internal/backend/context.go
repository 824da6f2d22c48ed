package backend

import "context"

type contextKey string

const contextKeyToken contextKey = "customer_token"

// WithToken attaches the customer's bearer token to outgoing API calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyToken, token)
}

func tokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeyToken).(string); ok {
		return token
	}
	return ""
}

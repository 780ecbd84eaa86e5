package redisdict

import "context"

type contextKey string

func (c contextKey) String() string {
	return "redisdict " + string(c)
}

var (
	contextKeyDict = contextKey("dict")
)

// WithDict attaches d to ctx, usually once per request or session
func WithDict(ctx context.Context, d Dict) context.Context {
	return context.WithValue(ctx, contextKeyDict, d)
}

// FromContext returns the dict attached by WithDict
func FromContext(ctx context.Context) (Dict, bool) {
	d, ok := ctx.Value(contextKeyDict).(Dict)
	if !ok || d == nil {
		return nil, false
	}
	return d, true
}

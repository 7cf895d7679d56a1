package core

import "context"

// Client identifies who issued a request. It is copied onto audit entries.
type Client struct {
	IP        string
	UserAgent string
}

type clientKey struct{}

// ContextWithClient attaches the caller's address and User-Agent.
func ContextWithClient(ctx context.Context, ip, ua string) context.Context {
	return context.WithValue(ctx, clientKey{}, Client{IP: ip, UserAgent: ua})
}

// ClientFromContext returns the client stored by ContextWithClient, or the
// zero Client for calls that did not come over HTTP.
func ClientFromContext(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}

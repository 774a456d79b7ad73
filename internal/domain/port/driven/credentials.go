package driven

import "context"

// CredentialSource yields the credential that authenticates AdminAPI calls.
type CredentialSource interface {
	Read(ctx context.Context) (string, bool)
}

type credentialsKey struct{}

// WithCredentials returns a context whose AdminAPI calls are authenticated
// from src. This is how one gateway client serves many browser sessions.
func WithCredentials(ctx context.Context, src CredentialSource) context.Context {
	return context.WithValue(ctx, credentialsKey{}, src)
}

// CredentialsFrom returns the source attached by WithCredentials.
func CredentialsFrom(ctx context.Context) (CredentialSource, bool) {
	src, ok := ctx.Value(credentialsKey{}).(CredentialSource)
	return src, ok && src != nil
}

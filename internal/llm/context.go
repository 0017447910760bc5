package llm

import "context"

type contextKey string

const (
	purposeKey    contextKey = "llm_purpose"
	credentialKey contextKey = "llm_credential"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithCredential attaches the 1-based credential slot in use. Keys are never
// logged, only their position.
func WithCredential(ctx context.Context, slot int) context.Context {
	return context.WithValue(ctx, credentialKey, slot)
}

// CredentialFrom extracts the credential slot, or 0 when unset.
func CredentialFrom(ctx context.Context) int {
	if v, ok := ctx.Value(credentialKey).(int); ok {
		return v
	}
	return 0
}

package auth

import "context"

// Ephemeral session fields. Before login completes only KeyAuth is set; afterwards the other
// three are.
const (
	KeyAuth       = "auth"
	KeySession    = "session"
	KeyUUID       = "uuid"
	KeyProviderID = "provider_id"
)

// Session is one browser's ephemeral key space.
type Session interface {
	Get(ctx context.Context, field string) (string, bool, error)
	Set(ctx context.Context, field, value string) error
	Remove(ctx context.Context, field string) error

	// Take reads and removes field atomically.
	Take(ctx context.Context, field string) (string, bool, error)

	Destroy(ctx context.Context) error
}

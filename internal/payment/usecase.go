package payment

import "context"

// UseCase consumes untrusted asynchronous gateway notifications and maps
// them onto the order state machine. The raw payload is persisted before any
// validation so no notification is ever lost.
type UseCase interface {
	HandleNotification(ctx context.Context, rawPayload []byte) error
}

package auth

import "context"

// Owner identifies who a cart or order belongs to: a registered user or an
// anonymous session, never both. Session issuance is out of scope; upstream
// middleware populates the context.
type Owner struct {
	UserID    string
	SessionID string
}

func (o Owner) IsGuest() bool {
	return o.UserID == ""
}

type ownerKey struct{}

func WithOwner(ctx context.Context, owner Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func OwnerFromContext(ctx context.Context) Owner {
	if owner, ok := ctx.Value(ownerKey{}).(Owner); ok {
		return owner
	}
	return Owner{}
}

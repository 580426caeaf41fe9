package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	identityKey       contextKey = "identity"
	identityHolderKey contextKey = "identityHolder"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID     string
	CognitoSub string
}

// identityHolder lets middleware wrapped outside the auth layer read back
// the identity that SetIdentity attaches further down the chain. Context
// values only flow downward, so the holder is the return channel.
type identityHolder struct {
	id Identity
}

// CaptureIdentity installs a holder that SetIdentity populates, so an outer
// middleware can observe the identity after the inner chain has run.
func CaptureIdentity(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityHolderKey, &identityHolder{})
}

// CapturedIdentity reads the identity recorded in the holder, if one was
// installed. The zero Identity means no authenticated caller was attached.
func CapturedIdentity(ctx context.Context) Identity {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		return h.id
	}
	return Identity{}
}

func SetIdentity(ctx context.Context, id Identity) context.Context {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		h.id = id
	}
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the request identity; the zero Identity means the
// request is anonymous.
func IdentityFrom(r *http.Request) Identity {
	id, _ := r.Context().Value(identityKey).(Identity)
	return id
}

func GetUserID(r *http.Request) string {
	return IdentityFrom(r).UserID
}

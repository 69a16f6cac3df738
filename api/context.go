package api

import (
	"context"

	"github.com/aaronch12Ch/portafolio-sp/session"
)

type keyType string

const (
	sessionIDKey keyType = "sessionID"
	sessionKey   keyType = "session"
)

func ctxWithSession(ctx context.Context, id string, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, id)
	return context.WithValue(ctx, sessionKey, sess)
}

// ctxGetSession returns the request's session, or an inert one when the
// session middleware did not run.
func ctxGetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok && sess != nil {
		return sess
	}
	return session.New(nil)
}

func ctxGetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

package utils

import (
	"context"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

type rqIDKey struct{}

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

func CreateCtxWithRqID(c tele.Context) context.Context {
	rqId, ok := c.Get("rqID").(string)
	if !ok {
		return context.WithValue(context.Background(), rqIDKey{}, uuid.NewString())
	}
	return context.WithValue(context.Background(), rqIDKey{}, rqId)
}

// NewCtxWithRqID is used outside of telegram handlers (bus callbacks).
func NewCtxWithRqID() context.Context {
	return context.WithValue(context.Background(), rqIDKey{}, uuid.NewString())
}

// WithRqID attaches a fresh rqID to an existing context, keeping its
// cancellation (scheduler jobs get their context from gocron).
func WithRqID(ctx context.Context) context.Context {
	return context.WithValue(ctx, rqIDKey{}, uuid.NewString())
}

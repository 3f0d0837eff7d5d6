package middleware

import (
	"time-tracking-bot/pkg/log"
)

// TraceIDHeader carries the request trace id in both directions.
const TraceIDHeader = "X-Request-ID"

type Middleware struct {
	l log.Logger
}

func New(l log.Logger) Middleware {
	return Middleware{l: l}
}

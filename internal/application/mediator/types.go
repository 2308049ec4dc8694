package mediator

import (
	"context"
	"errors"
	"reflect"
)

// Request is a command or query value; its dynamic type selects the handler
type Request interface{}

// Response is whatever the selected handler returns
type Response interface{}

// ErrNoHandler is returned by Send for request types nobody registered
var ErrNoHandler = errors.New("no handler registered")

// ErrUnexpectedResponse is returned by SendAs when the handler answered with
// a different type than the caller asked for
var ErrUnexpectedResponse = errors.New("unexpected response type")

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is the shape both handlers and middleware continuations take
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps every Send. Calling next continues the chain; not calling
// it short-circuits the request.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	RegisterMiddleware(middleware Middleware)
}

package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
)

// PrometheusMiddleware records every mediator request. It should be
// registered outside the serializing middleware so waiting time counts.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		kind, name := describeRequest(request)
		collector.begin()
		start := time.Now()
		response, err := next(ctx, request)
		collector.finish(kind, name, time.Since(start).Seconds(), err)

		return response, err
	}
}

// describeRequest returns the request kind ("query" for types declared in a
// queries package, "command" otherwise) and its bare type name:
// *queries.ListWorkshopsQuery gives ("query", "ListWorkshopsQuery").
func describeRequest(request mediator.Request) (string, string) {
	if request == nil {
		return "command", "unknown"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	kind := "command"
	if strings.HasSuffix(t.PkgPath(), "/queries") {
		kind = "query"
	}
	name := t.Name()
	if name == "" {
		name = "unknown"
	}
	return kind, name
}

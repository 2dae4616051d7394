// Package reqflow is a declarative HTTP request controller: given a set of
// request parameters and lifecycle hooks it decides when to fire the request,
// tracks its status through a small state machine, and can short-circuit the
// network entirely from an externally owned response cache.
//
//   - Lifecycle state machine (INIT → START → SUCCESS / FAILURE / ERROR) with
//     exactly one hook invocation per completed request
//   - Structural change detection on the declarative parameters; equal
//     configurations never refire
//   - Tag-keyed cache bridge against a pluggable Store (in-memory, TTL,
//     LevelDB backends included)
//   - Deferred mode and a manual trigger usable from any call site
//   - Published lifecycle state observable by any number of watchers
//   - Prometheus metrics and logr-based structured logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - Transport is a collaborator, never owned: any Transport implementation
//     can back a Controller
//   - Safe concurrent use of a single *Controller instance
//
// Typical usage:
//
//	ctrl := reqflow.New(reqflow.Params{
//	    URL:    "https://api.example.com/items",
//	    Method: "get",
//	    Tag:    "items",
//	    Cache:  5 * time.Minute,
//	    Hooks: reqflow.Hooks{
//	        OnSuccess: func(resp *reqflow.Response) { /* ... */ },
//	    },
//	}, reqflow.WithStore(reqflow.NewMemoryStore()))
//	if err := ctrl.Attach(ctx); err != nil {
//	    // malformed parameters
//	}
//
// Overlapping invocations of Fire are allowed and race: each runs
// the full algorithm and the last completion to land owns the lifecycle state.
package reqflow

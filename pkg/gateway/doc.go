// Package gateway runs a pipeline in front of HTTP handlers.
//
// Every incoming request is turned into a Request, the pipeline is run with it and its result
// decides what happens next:
//
//   - a *response.APIResponse is written back to the client, the next handler is not called.
//   - a falsy value (nil, false, "" ...) is answered with 403 Forbidden.
//   - an error is logged and answered with the status of a StatusError, 500 otherwise.
//   - a *Request is applied to the HTTP request, which is handed to the next handler.
package gateway

// Package api defines the daemon's HTTP surface.
//
// Routes are declared with Huma so the OpenAPI document is generated from
// the same definitions the handlers run behind. Handlers translate between
// the HTTP types here and the domain services; they hold no state of
// their own. Error-to-status mapping lives in the daemon package, which
// installs it on the Huma router.
package api

// Package regions provides the embedded country (ISO 3166-1) and US state
// lists backing the country and state form fields, lookup and search
// helpers, and small net/http handlers that return JSON options.
//
// Handlers respond to GET and HEAD requests at <RoutePath>/countries and
// <RoutePath>/states and accept query and limit parameters. With no query the
// full list is returned, capped at the limit.
package regions

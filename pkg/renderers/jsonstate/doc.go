// Package jsonstate renders a form block's submission state as JSON for the
// browser runtime and other script clients.
package jsonstate

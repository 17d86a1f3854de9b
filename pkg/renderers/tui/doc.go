// Package tui fills form blocks from a terminal. Prompts are issued through a
// PromptDriver (survey by default), answers are validated with formstate as
// they are typed, and Run submits the result through a submit.Session,
// printing the loading notice, the confirmation, the error banner or the
// redirect target.
//
// Renderer also implements render.Renderer so block views can be printed as
// a plain text outline or as the JSON submission they would produce.
package tui

// Package model defines the content types shared by the form block pipeline:
// CMS form definitions and their fields, page layouts, navigation and the
// submission payload sent back to the CMS. Concrete types live in
// internal/model; this package re-exports them together with Prepare, which
// validates and normalises a definition before it reaches a renderer.
//
// Field kinds form a closed set (text, textarea, email, number, select,
// checkbox, country, state, message). Tags outside that set decode to
// FieldKindUnknown and are skipped downstream rather than rejected.
package model

// Package vanilla renders form blocks to plain HTML using embedded pongo2
// templates. Field controls are drawn through a fields.Registry, and the
// embedded runtime script upgrades the form to submit in place, showing the
// loading message only when a response takes longer than the loading delay.
package vanilla

// Package slug formats content references into URL paths.
package slug

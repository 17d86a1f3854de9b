// Package content loads pages, forms and the main menu either from the CMS
// REST API (NewCMSStore) or from a directory of YAML and JSON files (LoadFS).
// Both stores hydrate form blocks that reference their form by id.
package content

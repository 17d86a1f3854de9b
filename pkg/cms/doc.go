// Package cms is a small client for the headless CMS REST API: form
// submissions, forms, pages, arbitrary documents and the main-menu global.
package cms

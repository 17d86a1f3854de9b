// Package pages renders CMS pages inside the application shell and routes
// form posts to the addressed form block of the page layout.
package pages

// Package shell wraps page output in the application document: the grid
// configuration, the site header with the main menu, the modal host and the
// theme variables. A Shell is built once per server. Each request fetches
// the shared props with InitialProps, then hands a page Component and its
// props to Render, which forwards them untouched.
package shell

// Package block serves a CMS form block over HTTP. A Component validates
// posted values, runs one submission session per request and answers with
// the rendered outcome: a redirect, the confirmation, or the form again with
// inline errors and the error banner. Script clients that accept JSON get the
// block state instead of HTML.
package block

// Package formstate registers the input fields of a form definition, applies
// the rule for each field kind and collects the first error per field.
//
// Collected values always follow the declared field order so the payload sent
// to the CMS is stable across requests.
package formstate

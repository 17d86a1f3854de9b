// Package testsupport holds golden file helpers and a fake CMS
// server shared by package tests.
package testsupport

// Package sqlite is the local persistence of the service: prompt overrides
// edited at runtime and the usage log of AI calls.
//
// It uses modernc.org/sqlite, a pure Go driver, so the binaries build without
// CGO. The schema is managed by the versioned migrations embedded from the
// migrations/ directory.
package sqlite

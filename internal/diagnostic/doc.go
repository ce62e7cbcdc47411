// Package diagnostic collects structured errors, warnings and notes produced
// while checking validation configuration and transformer definitions.
//
// Each Diagnostic names the configuration scope it came from (global,
// example or a single record override) and the record path it concerns, and
// may carry "did you mean" suggestions.
package diagnostic

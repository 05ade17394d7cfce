// Package preflight provides readiness checks for the paths, documents, and
// credentials a foodreel run depends on.
//
// The CLI "foodreel check" command runs them all before an operator starts a
// long enrichment pass. Failures are problems a run would abort on; warnings
// are degraded modes a run tolerates, such as missing provider credentials.
package preflight

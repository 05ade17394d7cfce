// Package ledger keeps pipeline run history and the needs-override queue in
// a small SQLite database next to the data documents.
//
// The queue lists every item the last completed run could not classify, so
// operators can add overrides instead of discovering gaps by absence. Items
// drop off the queue as soon as a run classifies them.
package ledger

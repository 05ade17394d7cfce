// Package logs reads back the JSON copy of the foodreel log file.
//
// It keeps memory bounded when tailing the last N records, filters records
// by run or item id so one pipeline run can be inspected in isolation, and
// polls for appended records in follow mode. Callers supply a context so
// polling stops when the CLI exits.
package logs

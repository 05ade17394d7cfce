// Package main hosts the foodreel CLI entrypoint and command graph.
//
// The Cobra command tree covers the write side (run, ingest), the run
// ledger (history, unresolved), the read-side dataset queries used while
// building the site (query, show, slug), and configuration scaffolding.
// Heavy lifting lives in the internal packages; commands only resolve
// configuration, build a logger, and render results as tables or JSON.
package main

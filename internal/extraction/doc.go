// Package extraction derives a candidate restaurant name, city, and cuisine
// from free-text video captions.
//
// Name resolution is a cascade where the first success wins: the override
// table, an ordered list of caption rules, a named-entity recognizer, and
// finally the leading run of capitalized words. City and cuisine come from
// ordered keyword dictionaries matched against the raw caption. Extraction
// never fails; a missing name is a normal outcome that the caller records
// as needing a manual override.
package extraction

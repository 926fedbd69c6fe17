// Package migrations holds the schema history. Each step registers itself
// from init(); import this package for its side effects wherever the
// migration runner is used.
package migrations

// Package loader ingests flat-text object export files: it walks the given
// paths, splits multi-object streams on declaration boundaries, parses the
// objects concurrently and feeds the results into the symbol database, the
// reference index and the code index. Parsing failures are collected as
// per-object failure records; a bad object never aborts the batch.
package loader

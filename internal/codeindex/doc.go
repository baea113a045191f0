// Package codeindex indexes the opaque code carried by parsed objects:
// procedure bodies, field triggers and main blocks are split into lines and
// stored in an in-memory SQLite database for substring search. The index
// lives and dies with the process.
//
// Two SQLite drivers are supported through build tags, mirroring the build
// scheme in build_cgo.go and build_purego.go: mattn/go-sqlite3 under the
// sqlite_cgo tag, modernc.org/sqlite otherwise.
package codeindex

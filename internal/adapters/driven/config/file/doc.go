// Package file provides the TOML-backed ConfigStore.
//
// Keys are addressed in dot notation ("backend.url") and written back to
// disk as nested tables, so a hand-edited config.toml reads naturally:
//
//	[backend]
//	url = "http://localhost:5000"
//
//	[chat]
//	mode = "retrieval"
package file

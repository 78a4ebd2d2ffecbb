package main

import (
	"encoding/json"
	"io"
)

// writeJSON renders v as indented JSON on w. HTML escaping is off so
// file paths come through unmangled.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

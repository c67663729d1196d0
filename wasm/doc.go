// Package wasm decodes the export name table of a WebAssembly binary module.
//
// The decoder is intentionally partial: it validates the container header,
// walks the section framing and decodes only the export section. Indices are
// not checked against other sections and function bodies are never parsed.
//
//	table, err := wasm.Decode(data)
//	if errors.Is(err, wasm.ErrMalformed) {
//		// cannot confirm anything about this module
//	}
//	if !table.Has("addTwo") {
//		...
//	}
package wasm

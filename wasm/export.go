package wasm

// Export is a single entry of the export section.
type Export struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// ExportTable is the ordered set of names a module exports.
type ExportTable struct {
	exports []Export
	index   map[string]int
}

func newExportTable(capacity int) *ExportTable {
	return &ExportTable{
		exports: make([]Export, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// add appends an export, reporting false when the name is already present.
func (t *ExportTable) add(export Export) bool {
	if _, ok := t.index[export.Name]; ok {
		return false
	}
	t.index[export.Name] = len(t.exports)
	t.exports = append(t.exports, export)
	return true
}

// Has reports whether name is exported.
func (t *ExportTable) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Lookup returns the export entry for name.
func (t *ExportTable) Lookup(name string) (Export, bool) {
	if t == nil {
		return Export{}, false
	}
	idx, ok := t.index[name]
	if !ok {
		return Export{}, false
	}
	return t.exports[idx], true
}

// Len returns the number of exports.
func (t *ExportTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.exports)
}

// Names returns export names in declaration order.
func (t *ExportTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.exports))
	for i, export := range t.exports {
		names[i] = export.Name
	}
	return names
}

// Exports returns a copy of the export entries in declaration order.
func (t *ExportTable) Exports() []Export {
	if t == nil {
		return nil
	}
	return append([]Export(nil), t.exports...)
}

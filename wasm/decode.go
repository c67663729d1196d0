package wasm

import (
	"fmt"

	"github.com/viant/wasmlint/wasm/internal/binary"
)

// minExportEntrySize is the smallest encoding of an export entry:
// one byte name length, one byte kind and one byte index.
const minExportEntrySize = 3

// Decode validates the module header and returns the export table.
// Sections may appear in any order; a module without an export section
// yields an empty table. Every failure is a *MalformedError.
func Decode(data []byte) (*ExportTable, error) {
	r := binary.NewReader(data, 0)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, malformed("header", r.Position(), err)
	}
	if magic != Magic {
		return nil, malformed("header", 0, ErrInvalidMagic)
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, malformed("header", r.Position(), err)
	}
	if version != Version {
		return nil, malformed("header", 4, fmt.Errorf("%w: %d", ErrInvalidVersion, version))
	}

	var table *ExportTable
	for r.Len() > 0 {
		sectionStart := r.Position()
		sectionID, err := r.ReadByte()
		if err != nil {
			return nil, malformed("section header", sectionStart, err)
		}
		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, malformed(sectionName(sectionID)+" section size", r.Position(), err)
		}
		if uint64(sectionSize) > uint64(r.Len()) {
			return nil, malformed(sectionName(sectionID)+" section", r.Position(),
				fmt.Errorf("%w: section of %d bytes, have %d", ErrTruncated, sectionSize, r.Len()))
		}
		payloadStart := r.Position()
		payload, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, malformed(sectionName(sectionID)+" section", payloadStart, err)
		}
		if sectionID != SectionExport {
			continue
		}
		if table != nil {
			return nil, malformed("export section", sectionStart, ErrDuplicateSection)
		}
		if table, err = decodeExportSection(binary.NewReader(payload, payloadStart)); err != nil {
			return nil, err
		}
	}

	if table == nil {
		table = newExportTable(0)
	}
	return table, nil
}

func decodeExportSection(r *binary.Reader) (*ExportTable, error) {
	const section = "export section"
	count, err := r.ReadU32()
	if err != nil {
		return nil, malformed(section, r.Position(), err)
	}
	if uint64(count)*minExportEntrySize > uint64(r.Len()) {
		return nil, malformed(section, r.Position(),
			fmt.Errorf("%w: %d exports declared in %d bytes", ErrTruncated, count, r.Len()))
	}
	table := newExportTable(int(count))
	for i := uint32(0); i < count; i++ {
		entryStart := r.Position()
		name, err := r.ReadName()
		if err != nil {
			return nil, malformed(section, entryStart, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, malformed(section, r.Position(), err)
		}
		if _, err = r.ReadU32(); err != nil {
			return nil, malformed(section, r.Position(), err)
		}
		if !table.add(Export{Name: name, Kind: Kind(kind)}) {
			return nil, malformed(section, entryStart, fmt.Errorf("%w: %q", ErrDuplicateExport, name))
		}
	}
	if r.Len() > 0 {
		return nil, malformed(section, r.Position(), ErrTrailingBytes)
	}
	return table, nil
}

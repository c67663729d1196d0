package wasm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/wasmlint/wasm"
)

func TestDecode(t *testing.T) {
	var testCases = []struct {
		description string
		input       []byte
		expect      []string
		expectErr   error
	}{
		{
			description: "addTwo module",
			input:       addTwoModule,
			expect:      []string{"addTwo"},
		},
		{
			description: "header only",
			input:       header,
			expect:      []string{},
		},
		{
			description: "no export section",
			input:       module(section(wasm.SectionType, []byte{0x01, 0x60, 0x00, 0x00})),
			expect:      []string{},
		},
		{
			description: "mixed kinds keep declaration order",
			input: module(section(wasm.SectionExport, exportPayload(
				entry{name: "memory", kind: 2},
				entry{name: "run", kind: 0, idx: 3},
				entry{name: "counter", kind: 3, idx: 200},
			))),
			expect: []string{"memory", "run", "counter"},
		},
		{
			description: "export section before type section",
			input: module(
				section(wasm.SectionExport, exportPayload(entry{name: "f"})),
				section(wasm.SectionCustom, append([]byte{0x04}, "name"...)),
				section(wasm.SectionType, []byte{0x01, 0x60, 0x00, 0x00}),
			),
			expect: []string{"f"},
		},
		{
			description: "unknown section id is skipped",
			input: module(
				section(0x42, []byte{0xde, 0xad}),
				section(wasm.SectionExport, exportPayload(entry{name: "g"})),
			),
			expect: []string{"g"},
		},
		{
			description: "empty name",
			input:       module(section(wasm.SectionExport, exportPayload(entry{name: ""}))),
			expect:      []string{""},
		},
		{
			description: "bad magic",
			input:       []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
			expectErr:   wasm.ErrInvalidMagic,
		},
		{
			description: "unsupported version",
			input:       []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00},
			expectErr:   wasm.ErrInvalidVersion,
		},
		{
			description: "truncated header",
			input:       []byte{0x00, 0x61, 0x73},
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "empty buffer",
			input:       nil,
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "section size past end",
			input:       append(module(), wasm.SectionType, 0x10, 0x01),
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "missing section size",
			input:       append(module(), wasm.SectionExport),
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "truncated export name",
			input:       module(section(wasm.SectionExport, []byte{0x01, 0x09, 'a', 'b', 0x00})),
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "count larger than payload",
			input:       module(section(wasm.SectionExport, []byte{0xFF, 0x01, 0x01, 'a', 0x00, 0x00})),
			expectErr:   wasm.ErrTruncated,
		},
		{
			description: "duplicate export name",
			input: module(section(wasm.SectionExport, exportPayload(
				entry{name: "dup"},
				entry{name: "dup", idx: 1},
			))),
			expectErr: wasm.ErrDuplicateExport,
		},
		{
			description: "duplicate export section",
			input: module(
				section(wasm.SectionExport, exportPayload(entry{name: "a"})),
				section(wasm.SectionExport, exportPayload(entry{name: "b"})),
			),
			expectErr: wasm.ErrDuplicateSection,
		},
		{
			description: "unknown export kind is kept",
			input:       module(section(wasm.SectionExport, exportPayload(entry{name: "a", kind: 9}, entry{name: "b"}))),
			expect:      []string{"a", "b"},
		},
		{
			description: "trailing bytes in export section",
			input:       module(section(wasm.SectionExport, append(exportPayload(entry{name: "a"}), 0x00))),
			expectErr:   wasm.ErrTrailingBytes,
		},
		{
			description: "invalid utf8 name",
			input:       module(section(wasm.SectionExport, []byte{0x01, 0x02, 0xff, 0xfe, 0x00, 0x00})),
			expectErr:   wasm.ErrInvalidName,
		},
	}

	for _, testCase := range testCases {
		actual, err := wasm.Decode(testCase.input)
		if testCase.expectErr != nil {
			assert.Nil(t, actual, testCase.description)
			assert.True(t, errors.Is(err, testCase.expectErr), "%v: %v", testCase.description, err)
			assert.True(t, errors.Is(err, wasm.ErrMalformed), testCase.description)
			var malformed *wasm.MalformedError
			assert.True(t, errors.As(err, &malformed), testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual.Names(), testCase.description)
		assert.Equal(t, len(testCase.expect), actual.Len(), testCase.description)
		for _, name := range testCase.expect {
			assert.True(t, actual.Has(name), testCase.description)
		}
		assert.False(t, actual.Has("not-there"), testCase.description)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	data := module(section(wasm.SectionExport, exportPayload(
		entry{name: "z"}, entry{name: "a", idx: 1}, entry{name: "m", kind: 2},
	)))
	first, err := wasm.Decode(data)
	assert.Nil(t, err)
	second, err := wasm.Decode(data)
	assert.Nil(t, err)
	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, first.Exports(), second.Exports())
	assert.Equal(t, []string{"z", "a", "m"}, first.Names())
}

func TestDecode_TruncatedNeverPanics(t *testing.T) {
	for i := 0; i < len(addTwoModule); i++ {
		assert.NotPanics(t, func() {
			table, err := wasm.Decode(addTwoModule[:i])
			if err == nil {
				// prefixes ending on a section boundary are complete modules
				assert.NotNil(t, table)
				return
			}
			assert.True(t, errors.Is(err, wasm.ErrMalformed))
		})
	}
}

func TestExportTable_Lookup(t *testing.T) {
	table, err := wasm.Decode(module(section(wasm.SectionExport, exportPayload(entry{name: "mem", kind: 2}))))
	assert.Nil(t, err)
	export, ok := table.Lookup("mem")
	assert.True(t, ok)
	assert.Equal(t, wasm.KindMemory, export.Kind)
	assert.Equal(t, "memory", export.Kind.String())
	_, ok = table.Lookup("nope")
	assert.False(t, ok)

	table, err = wasm.Decode(module(section(wasm.SectionExport, exportPayload(entry{name: "future", kind: 0x20}))))
	assert.Nil(t, err)
	assert.True(t, table.Has("future"))
	export, ok = table.Lookup("future")
	assert.True(t, ok)
	assert.Equal(t, wasm.Kind(0x20), export.Kind)
	assert.Equal(t, "unknown", export.Kind.String())
	_, ok = table.Lookup("nope")
	assert.False(t, ok)

	var empty *wasm.ExportTable
	assert.False(t, empty.Has("x"))
	assert.Equal(t, 0, empty.Len())
}

package wasm_test

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// addTwoModule exports a single function: (i32, i32) -> i32 addTwo.
var addTwoModule = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0A, 0x01, 0x06, 'a', 'd', 'd', 'T', 'w', 'o', 0x00, 0x00,
	0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

type entry struct {
	name string
	kind byte
	idx  uint32
}

func exportPayload(entries ...entry) []byte {
	out := uleb(uint32(len(entries)))
	for _, e := range entries {
		out = append(out, uleb(uint32(len(e.name)))...)
		out = append(out, e.name...)
		out = append(out, e.kind)
		out = append(out, uleb(e.idx)...)
	}
	return out
}

func module(sections ...[]byte) []byte {
	out := append([]byte(nil), header...)
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

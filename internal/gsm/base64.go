package gsm

import "io"

// Base64Decoder lazily decodes a base64 character stream one octet at a
// time. Each decode session owns its accumulator, so independent streams
// never share state.
type Base64Decoder struct {
	src   []byte
	pos   int
	value uint32
	bits  uint
}

func NewBase64Decoder(src []byte) *Base64Decoder {
	return &Base64Decoder{src: src}
}

// Reset starts a new session over src, clearing the accumulator.
func (d *Base64Decoder) Reset(src []byte) {
	d.src = src
	d.pos = 0
	d.value = 0
	d.bits = 0
}

// Next returns the next decoded octet. It returns io.EOF at the end of the
// input, at a NUL, at '=' padding or at the first character outside the
// standard alphabet. Line breaks and blanks are skipped.
func (d *Base64Decoder) Next() (byte, error) {
	for {
		if d.pos >= len(d.src) {
			return 0, io.EOF
		}

		ch := d.src[d.pos]
		d.pos++

		var v uint32
		switch {
		case ch >= 'A' && ch <= 'Z':
			v = uint32(ch - 'A')
		case ch >= 'a' && ch <= 'z':
			v = uint32(ch-'a') + 26
		case ch >= '0' && ch <= '9':
			v = uint32(ch-'0') + 52
		case ch == '+':
			v = 62
		case ch == '/':
			v = 63
		case ch == '\r' || ch == '\n' || ch == ' ' || ch == '\t':
			continue
		default:
			d.pos = len(d.src)
			return 0, io.EOF
		}

		d.value = (d.value<<6 | v) & 0xFFFFFF
		d.bits += 6

		if d.bits >= 8 {
			d.bits -= 8
			return byte(d.value >> d.bits), nil
		}
	}
}

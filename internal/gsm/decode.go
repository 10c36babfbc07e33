package gsm

import (
	"errors"
	"io"
	"strings"
)

// Decoder turns a base64 transported stream of default-alphabet units into
// display characters.
type Decoder struct {
	b64 *Base64Decoder
}

func NewDecoder(src []byte) *Decoder {
	return &Decoder{b64: NewBase64Decoder(src)}
}

// NextLatin1 returns the next display character as an ISO-8859-1 byte.
func (d *Decoder) NextLatin1() (byte, error) {
	u, err := d.b64.Next()
	if err != nil {
		return 0, err
	}
	return latin1For(u, d.b64.Next), nil
}

func latin1For(u byte, next func() (byte, error)) byte {
	if u > 0x7F {
		return '?'
	}
	if u != escape {
		return unitsToLatin1[u]
	}

	code, err := next()
	if err != nil {
		return '?'
	}
	if ch, ok := escapedToLatin1[code]; ok {
		return ch
	}
	return '?'
}

// NextRune returns the next display character as a Unicode code point.
func (d *Decoder) NextRune() (rune, error) {
	u, err := d.b64.Next()
	if err != nil {
		return 0, err
	}
	return runeFor(u, d.b64.Next), nil
}

func runeFor(u byte, next func() (byte, error)) rune {
	if u > 0x7F {
		return '?'
	}
	if u != escape {
		return unitsToRunes[u]
	}

	code, err := next()
	if err != nil {
		return '?'
	}
	if r, ok := escapedToRunes[code]; ok {
		return r
	}
	return '?'
}

// DecodeLatin1 decodes a complete base64 body into ISO-8859-1 text.
func DecodeLatin1(src []byte) []byte {
	d := NewDecoder(src)
	out := make([]byte, 0, len(src)*3/4)
	for {
		ch, err := d.NextLatin1()
		if errors.Is(err, io.EOF) {
			return out
		}
		out = append(out, ch)
	}
}

// DecodeString decodes a complete base64 body into UTF-8 text.
func DecodeString(src []byte) string {
	d := NewDecoder(src)
	var sb strings.Builder
	for {
		r, err := d.NextRune()
		if errors.Is(err, io.EOF) {
			return sb.String()
		}
		sb.WriteRune(r)
	}
}

// UnitsToString converts raw (already base64 decoded) units to UTF-8 text.
func UnitsToString(units []byte) string {
	var sb strings.Builder
	next := unitReader(units)
	for {
		u, err := next()
		if err != nil {
			return sb.String()
		}
		sb.WriteRune(runeFor(u, next))
	}
}

// UnitsToLatin1 converts raw units to ISO-8859-1 text.
func UnitsToLatin1(units []byte) []byte {
	out := make([]byte, 0, len(units))
	next := unitReader(units)
	for {
		u, err := next()
		if err != nil {
			return out
		}
		out = append(out, latin1For(u, next))
	}
}

func unitReader(units []byte) func() (byte, error) {
	pos := 0
	return func() (byte, error) {
		if pos >= len(units) {
			return 0, io.EOF
		}
		u := units[pos]
		pos++
		return u, nil
	}
}

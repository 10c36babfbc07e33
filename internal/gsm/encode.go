package gsm

import "encoding/base64"

// EncodeLatin1 converts ISO-8859-1 text to default-alphabet units.
func EncodeLatin1(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for _, ch := range src {
		v, ok := latin1ToUnits[ch]
		if !ok {
			v = uint16('?')
		}
		out = appendUnits(out, v)
	}
	return out
}

// Encode converts UTF-8 text to default-alphabet units.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = appendUnits(out, lookupRune(r))
	}
	return out
}

// RuneUnits reports how many units r occupies once encoded.
func RuneUnits(r rune) int {
	if lookupRune(r) > 0xFF {
		return 2
	}
	return 1
}

// Sanitize returns s as it reads after a trip through the default alphabet.
func Sanitize(s string) string {
	return UnitsToString(Encode(s))
}

// EncodeBase64 renders units in the transport form read by Decoder.
func EncodeBase64(units []byte) string {
	return base64.StdEncoding.EncodeToString(units)
}

func lookupRune(r rune) uint16 {
	if v, ok := runesToUnits[r]; ok {
		return v
	}
	return uint16('?')
}

func appendUnits(out []byte, v uint16) []byte {
	if v > 0xFF {
		return append(out, escape, byte(v))
	}
	return append(out, byte(v))
}

package gsm

// escape introduces a unit from the single-shift extension table.
const escape = 0x1B

// unitsToLatin1 maps each default-alphabet unit to ISO-8859-1. Units with no
// Latin-1 counterpart (the Greek capitals) map to '?'. The escape unit is
// handled by the caller.
var unitsToLatin1 = [128]byte{
	0x00: 0x40, // @
	0x01: 0xA3, // £
	0x02: 0x24, // $
	0x03: 0xA5, // ¥
	0x04: 0xE8, // è
	0x05: 0xE9, // é
	0x06: 0xF9, // ù
	0x07: 0xEC, // ì
	0x08: 0xF2, // ò
	0x09: 0xC7, // Ç
	0x0A: 0x0A, // LF
	0x0B: 0xD8, // Ø
	0x0C: 0xF8, // ø
	0x0D: 0x0D, // CR
	0x0E: 0xC5, // Å
	0x0F: 0xE5, // å
	0x10: 0x3F, // Δ (no Latin-1 form)
	0x11: 0x5F, // _
	0x12: 0x3F, // Φ (no Latin-1 form)
	0x13: 0x3F, // Γ (no Latin-1 form)
	0x14: 0x3F, // Λ (no Latin-1 form)
	0x15: 0x3F, // Ω (no Latin-1 form)
	0x16: 0x3F, // Π (no Latin-1 form)
	0x17: 0x3F, // Ψ (no Latin-1 form)
	0x18: 0x3F, // Σ (no Latin-1 form)
	0x19: 0x3F, // Θ (no Latin-1 form)
	0x1A: 0x3F, // Ξ (no Latin-1 form)
	0x1B: 0x1B, // ESC
	0x1C: 0xC6, // Æ
	0x1D: 0xE6, // æ
	0x1E: 0xDF, // ß
	0x1F: 0xC9, // É
	0x20: 0x20, // SP
	0x21: 0x21, // !
	0x22: 0x22, // "
	0x23: 0x23, // #
	0x24: 0xA4, // ¤
	0x25: 0x25, // %
	0x26: 0x26, // &
	0x27: 0x27, // '
	0x28: 0x28, // (
	0x29: 0x29, // )
	0x2A: 0x2A, // *
	0x2B: 0x2B, // +
	0x2C: 0x2C, // ,
	0x2D: 0x2D, // -
	0x2E: 0x2E, // .
	0x2F: 0x2F, // /
	0x30: 0x30, // 0
	0x31: 0x31, // 1
	0x32: 0x32, // 2
	0x33: 0x33, // 3
	0x34: 0x34, // 4
	0x35: 0x35, // 5
	0x36: 0x36, // 6
	0x37: 0x37, // 7
	0x38: 0x38, // 8
	0x39: 0x39, // 9
	0x3A: 0x3A, // :
	0x3B: 0x3B, // ;
	0x3C: 0x3C, // <
	0x3D: 0x3D, // =
	0x3E: 0x3E, // >
	0x3F: 0x3F, // ?
	0x40: 0xA1, // ¡
	0x41: 0x41, // A
	0x42: 0x42, // B
	0x43: 0x43, // C
	0x44: 0x44, // D
	0x45: 0x45, // E
	0x46: 0x46, // F
	0x47: 0x47, // G
	0x48: 0x48, // H
	0x49: 0x49, // I
	0x4A: 0x4A, // J
	0x4B: 0x4B, // K
	0x4C: 0x4C, // L
	0x4D: 0x4D, // M
	0x4E: 0x4E, // N
	0x4F: 0x4F, // O
	0x50: 0x50, // P
	0x51: 0x51, // Q
	0x52: 0x52, // R
	0x53: 0x53, // S
	0x54: 0x54, // T
	0x55: 0x55, // U
	0x56: 0x56, // V
	0x57: 0x57, // W
	0x58: 0x58, // X
	0x59: 0x59, // Y
	0x5A: 0x5A, // Z
	0x5B: 0xC4, // Ä
	0x5C: 0xD6, // Ö
	0x5D: 0xD1, // Ñ
	0x5E: 0xDC, // Ü
	0x5F: 0xA7, // §
	0x60: 0xBF, // ¿
	0x61: 0x61, // a
	0x62: 0x62, // b
	0x63: 0x63, // c
	0x64: 0x64, // d
	0x65: 0x65, // e
	0x66: 0x66, // f
	0x67: 0x67, // g
	0x68: 0x68, // h
	0x69: 0x69, // i
	0x6A: 0x6A, // j
	0x6B: 0x6B, // k
	0x6C: 0x6C, // l
	0x6D: 0x6D, // m
	0x6E: 0x6E, // n
	0x6F: 0x6F, // o
	0x70: 0x70, // p
	0x71: 0x71, // q
	0x72: 0x72, // r
	0x73: 0x73, // s
	0x74: 0x74, // t
	0x75: 0x75, // u
	0x76: 0x76, // v
	0x77: 0x77, // w
	0x78: 0x78, // x
	0x79: 0x79, // y
	0x7A: 0x7A, // z
	0x7B: 0xE4, // ä
	0x7C: 0xF6, // ö
	0x7D: 0xF1, // ñ
	0x7E: 0xFC, // ü
	0x7F: 0xE0, // à
}

// escapedToLatin1 maps the unit following an escape to ISO-8859-1.
var escapedToLatin1 = map[byte]byte{
	0x0A: 0x0C, // FF
	0x14: 0x5E, // ^
	0x28: 0x7B, // {
	0x29: 0x7D, // }
	0x2F: 0x5C, // \
	0x3C: 0x5B, // [
	0x3D: 0x7E, // ~
	0x3E: 0x5D, // ]
	0x40: 0x7C, // |
}

// unitsToRunes maps each default-alphabet unit to its Unicode code point.
var unitsToRunes = [128]rune{
	0x00: '@',
	0x01: '£',
	0x02: '$',
	0x03: '¥',
	0x04: 'è',
	0x05: 'é',
	0x06: 'ù',
	0x07: 'ì',
	0x08: 'ò',
	0x09: 'Ç',
	0x0A: '\n', // LF
	0x0B: 'Ø',
	0x0C: 'ø',
	0x0D: '\r', // CR
	0x0E: 'Å',
	0x0F: 'å',
	0x10: 'Δ',
	0x11: '_',
	0x12: 'Φ',
	0x13: 'Γ',
	0x14: 'Λ',
	0x15: 'Ω',
	0x16: 'Π',
	0x17: 'Ψ',
	0x18: 'Σ',
	0x19: 'Θ',
	0x1A: 'Ξ',
	0x1B: 0x1B, // ESC
	0x1C: 'Æ',
	0x1D: 'æ',
	0x1E: 'ß',
	0x1F: 'É',
	0x20: ' ', // SP
	0x21: '!',
	0x22: '"',
	0x23: '#',
	0x24: '¤',
	0x25: '%',
	0x26: '&',
	0x27: '\'', // '
	0x28: '(',
	0x29: ')',
	0x2A: '*',
	0x2B: '+',
	0x2C: ',',
	0x2D: '-',
	0x2E: '.',
	0x2F: '/',
	0x30: '0',
	0x31: '1',
	0x32: '2',
	0x33: '3',
	0x34: '4',
	0x35: '5',
	0x36: '6',
	0x37: '7',
	0x38: '8',
	0x39: '9',
	0x3A: ':',
	0x3B: ';',
	0x3C: '<',
	0x3D: '=',
	0x3E: '>',
	0x3F: '?',
	0x40: '¡',
	0x41: 'A',
	0x42: 'B',
	0x43: 'C',
	0x44: 'D',
	0x45: 'E',
	0x46: 'F',
	0x47: 'G',
	0x48: 'H',
	0x49: 'I',
	0x4A: 'J',
	0x4B: 'K',
	0x4C: 'L',
	0x4D: 'M',
	0x4E: 'N',
	0x4F: 'O',
	0x50: 'P',
	0x51: 'Q',
	0x52: 'R',
	0x53: 'S',
	0x54: 'T',
	0x55: 'U',
	0x56: 'V',
	0x57: 'W',
	0x58: 'X',
	0x59: 'Y',
	0x5A: 'Z',
	0x5B: 'Ä',
	0x5C: 'Ö',
	0x5D: 'Ñ',
	0x5E: 'Ü',
	0x5F: '§',
	0x60: '¿',
	0x61: 'a',
	0x62: 'b',
	0x63: 'c',
	0x64: 'd',
	0x65: 'e',
	0x66: 'f',
	0x67: 'g',
	0x68: 'h',
	0x69: 'i',
	0x6A: 'j',
	0x6B: 'k',
	0x6C: 'l',
	0x6D: 'm',
	0x6E: 'n',
	0x6F: 'o',
	0x70: 'p',
	0x71: 'q',
	0x72: 'r',
	0x73: 's',
	0x74: 't',
	0x75: 'u',
	0x76: 'v',
	0x77: 'w',
	0x78: 'x',
	0x79: 'y',
	0x7A: 'z',
	0x7B: 'ä',
	0x7C: 'ö',
	0x7D: 'ñ',
	0x7E: 'ü',
	0x7F: 'à',
}

// escapedToRunes maps the unit following an escape to its Unicode code point.
var escapedToRunes = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

// latin1ToUnits maps ISO-8859-1 bytes to units. Values above 0xFF encode an
// escape pair as escape<<8 | code. Bytes missing from the table become '?'.
var latin1ToUnits = map[byte]uint16{
	0x09: 0x20, // TAB sent as space
	0x0A: 0x0A, // LF
	0x0C: 0x1B0A, // FF
	0x0D: 0x0D, // CR
	0x20: 0x20, // SP
	0x21: 0x21, // !
	0x22: 0x27, // " sent as apostrophe
	0x23: 0x23, // #
	0x24: 0x02, // $
	0x25: 0x25, // %
	0x26: 0x26, // &
	0x27: 0x27, // '
	0x28: 0x28, // (
	0x29: 0x29, // )
	0x2A: 0x2A, // *
	0x2B: 0x2B, // +
	0x2C: 0x2C, // ,
	0x2D: 0x2D, // -
	0x2E: 0x2E, // .
	0x2F: 0x2F, // /
	0x30: 0x30, // 0
	0x31: 0x31, // 1
	0x32: 0x32, // 2
	0x33: 0x33, // 3
	0x34: 0x34, // 4
	0x35: 0x35, // 5
	0x36: 0x36, // 6
	0x37: 0x37, // 7
	0x38: 0x38, // 8
	0x39: 0x39, // 9
	0x3A: 0x3A, // :
	0x3B: 0x3B, // ;
	0x3C: 0x3C, // <
	0x3D: 0x3D, // =
	0x3E: 0x3E, // >
	0x3F: 0x3F, // ?
	0x40: 0x00, // @
	0x41: 0x41, // A
	0x42: 0x42, // B
	0x43: 0x43, // C
	0x44: 0x44, // D
	0x45: 0x45, // E
	0x46: 0x46, // F
	0x47: 0x47, // G
	0x48: 0x48, // H
	0x49: 0x49, // I
	0x4A: 0x4A, // J
	0x4B: 0x4B, // K
	0x4C: 0x4C, // L
	0x4D: 0x4D, // M
	0x4E: 0x4E, // N
	0x4F: 0x4F, // O
	0x50: 0x50, // P
	0x51: 0x51, // Q
	0x52: 0x52, // R
	0x53: 0x53, // S
	0x54: 0x54, // T
	0x55: 0x55, // U
	0x56: 0x56, // V
	0x57: 0x57, // W
	0x58: 0x58, // X
	0x59: 0x59, // Y
	0x5A: 0x5A, // Z
	0x5B: 0x1B3C, // [
	0x5C: 0x1B2F, // \
	0x5D: 0x1B3E, // ]
	0x5E: 0x1B14, // ^
	0x5F: 0x11, // _
	0x61: 0x61, // a
	0x62: 0x62, // b
	0x63: 0x63, // c
	0x64: 0x64, // d
	0x65: 0x65, // e
	0x66: 0x66, // f
	0x67: 0x67, // g
	0x68: 0x68, // h
	0x69: 0x69, // i
	0x6A: 0x6A, // j
	0x6B: 0x6B, // k
	0x6C: 0x6C, // l
	0x6D: 0x6D, // m
	0x6E: 0x6E, // n
	0x6F: 0x6F, // o
	0x70: 0x70, // p
	0x71: 0x71, // q
	0x72: 0x72, // r
	0x73: 0x73, // s
	0x74: 0x74, // t
	0x75: 0x75, // u
	0x76: 0x76, // v
	0x77: 0x77, // w
	0x78: 0x78, // x
	0x79: 0x79, // y
	0x7A: 0x7A, // z
	0x7B: 0x1B28, // {
	0x7C: 0x1B40, // |
	0x7D: 0x1B29, // }
	0x7E: 0x1B3D, // ~
	0xA1: 0x40, // ¡
	0xA3: 0x01, // £
	0xA4: 0x24, // ¤
	0xA5: 0x03, // ¥
	0xA7: 0x5F, // §
	0xBF: 0x60, // ¿
	0xC4: 0x5B, // Ä
	0xC5: 0x0E, // Å
	0xC6: 0x1C, // Æ
	0xC7: 0x09, // Ç
	0xC9: 0x1F, // É
	0xD1: 0x5D, // Ñ
	0xD6: 0x5C, // Ö
	0xD8: 0x0B, // Ø
	0xDC: 0x5E, // Ü
	0xDF: 0x1E, // ß
	0xE0: 0x7F, // à
	0xE4: 0x7B, // ä
	0xE5: 0x0F, // å
	0xE6: 0x1D, // æ
	0xE8: 0x04, // è
	0xE9: 0x05, // é
	0xEC: 0x07, // ì
	0xF1: 0x7D, // ñ
	0xF2: 0x08, // ò
	0xF6: 0x7C, // ö
	0xF8: 0x0C, // ø
	0xF9: 0x06, // ù
	0xFC: 0x7E, // ü
}

// runesToUnits maps Unicode code points to units, using the same escape
// encoding as latin1ToUnits. Runes missing from the table become '?'.
var runesToUnits = map[rune]uint16{
	'\t': 0x20, // sent as space
	'\n': 0x0A,
	'\f': 0x1B0A,
	'\r': 0x0D,
	' ': 0x20,
	'!': 0x21,
	'"': 0x27, // sent as apostrophe
	'#': 0x23,
	'$': 0x02,
	'%': 0x25,
	'&': 0x26,
	'\'': 0x27,
	'(': 0x28,
	')': 0x29,
	'*': 0x2A,
	'+': 0x2B,
	',': 0x2C,
	'-': 0x2D,
	'.': 0x2E,
	'/': 0x2F,
	'0': 0x30,
	'1': 0x31,
	'2': 0x32,
	'3': 0x33,
	'4': 0x34,
	'5': 0x35,
	'6': 0x36,
	'7': 0x37,
	'8': 0x38,
	'9': 0x39,
	':': 0x3A,
	';': 0x3B,
	'<': 0x3C,
	'=': 0x3D,
	'>': 0x3E,
	'?': 0x3F,
	'@': 0x00,
	'A': 0x41,
	'B': 0x42,
	'C': 0x43,
	'D': 0x44,
	'E': 0x45,
	'F': 0x46,
	'G': 0x47,
	'H': 0x48,
	'I': 0x49,
	'J': 0x4A,
	'K': 0x4B,
	'L': 0x4C,
	'M': 0x4D,
	'N': 0x4E,
	'O': 0x4F,
	'P': 0x50,
	'Q': 0x51,
	'R': 0x52,
	'S': 0x53,
	'T': 0x54,
	'U': 0x55,
	'V': 0x56,
	'W': 0x57,
	'X': 0x58,
	'Y': 0x59,
	'Z': 0x5A,
	'[': 0x1B3C,
	'\\': 0x1B2F,
	']': 0x1B3E,
	'^': 0x1B14,
	'_': 0x11,
	'a': 0x61,
	'b': 0x62,
	'c': 0x63,
	'd': 0x64,
	'e': 0x65,
	'f': 0x66,
	'g': 0x67,
	'h': 0x68,
	'i': 0x69,
	'j': 0x6A,
	'k': 0x6B,
	'l': 0x6C,
	'm': 0x6D,
	'n': 0x6E,
	'o': 0x6F,
	'p': 0x70,
	'q': 0x71,
	'r': 0x72,
	's': 0x73,
	't': 0x74,
	'u': 0x75,
	'v': 0x76,
	'w': 0x77,
	'x': 0x78,
	'y': 0x79,
	'z': 0x7A,
	'{': 0x1B28,
	'|': 0x1B40,
	'}': 0x1B29,
	'~': 0x1B3D,
	'¡': 0x40,
	'£': 0x01,
	'¤': 0x24,
	'¥': 0x03,
	'§': 0x5F,
	'¿': 0x60,
	'Ä': 0x5B,
	'Å': 0x0E,
	'Æ': 0x1C,
	'Ç': 0x09,
	'É': 0x1F,
	'Ñ': 0x5D,
	'Ö': 0x5C,
	'Ø': 0x0B,
	'Ü': 0x5E,
	'ß': 0x1E,
	'à': 0x7F,
	'ä': 0x7B,
	'å': 0x0F,
	'æ': 0x1D,
	'è': 0x04,
	'é': 0x05,
	'ì': 0x07,
	'ñ': 0x7D,
	'ò': 0x08,
	'ö': 0x7C,
	'ø': 0x0C,
	'ù': 0x06,
	'ü': 0x7E,
	'Γ': 0x13,
	'Δ': 0x10,
	'Θ': 0x19,
	'Λ': 0x14,
	'Ξ': 0x1A,
	'Π': 0x16,
	'Σ': 0x18,
	'Φ': 0x12,
	'Ψ': 0x17,
	'Ω': 0x15,
	'‘': 0x27, // typographic quote sent as apostrophe
	'’': 0x27, // typographic quote sent as apostrophe
	'“': 0x27, // typographic quote sent as apostrophe
	'”': 0x27, // typographic quote sent as apostrophe
	'€': 0x1B65,
}

package lineprotocol

import "strings"

// tagSpecials are the characters that need a backslash in measurement names,
// tag keys, tag values, and field keys.
const tagSpecials = "\\ ,="

// appendTagEscaped appends s with the four wire substitutions applied:
// backslash, space, comma, and equals sign each gain a leading backslash.
// Escaping runs in a single pass, so backslashes introduced for one character
// are never re-escaped by another.
func appendTagEscaped(dst []byte, s string) []byte {
	if !strings.ContainsAny(s, tagSpecials) {
		return append(dst, s...)
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ' ', ',', '=':
			dst = append(dst, '\\', c)
		default:
			dst = append(dst, c)
		}
	}

	return dst
}

// EscapeTag returns s with the tag escaping applied: `\` to `\\`, space to
// `\ `, `,` to `\,`, and `=` to `\=`. It is applied to measurement names,
// tag keys, tag values, and field keys.
func EscapeTag(s string) string {
	if !strings.ContainsAny(s, tagSpecials) {
		return s
	}

	return string(appendTagEscaped(make([]byte, 0, len(s)+4), s))
}

// appendQuoted appends s wrapped in double quotes, escaping backslashes,
// embedded double quotes, and literal newlines.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		default:
			dst = append(dst, c)
		}
	}

	return append(dst, '"')
}

// QuoteIdent double-quotes an identifier for use in a query statement.
// The same quoting renders string field values on the wire.
func QuoteIdent(s string) string {
	return string(appendQuoted(make([]byte, 0, len(s)+2), s))
}

var literalReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteLiteral single-quotes a string literal for use in a query statement,
// escaping backslashes and embedded single quotes.
func QuoteLiteral(s string) string {
	return "'" + literalReplacer.Replace(s) + "'"
}

package jsontree

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const indentUnit = "  "

// Marshal renders v as pretty-printed JSON with two-space indentation.
// Output is deterministic: object members appear in insertion order.
func Marshal(v Value) string {
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	writeValue(w, v, 0)
	_ = w.Flush()
	return sb.String()
}

// Encode writes the Marshal form of v followed by a newline.
func Encode(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	writeValue(bw, v, 0)
	_ = bw.WriteByte('\n')
	return bw.Flush()
}

func writeValue(w *bufio.Writer, v Value, depth int) {
	switch v.kind {
	case KindNull:
		_, _ = w.WriteString("null")
	case KindBool:
		if v.b {
			_, _ = w.WriteString("true")
		} else {
			_, _ = w.WriteString("false")
		}
	case KindNumber:
		_, _ = w.WriteString(v.text)
	case KindString:
		writeString(w, v.text)
	case KindArray:
		if len(v.items) == 0 {
			_, _ = w.WriteString("[]")
			return
		}
		_ = w.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			newline(w, depth+1)
			writeValue(w, item, depth+1)
		}
		newline(w, depth)
		_ = w.WriteByte(']')
	case KindObject:
		if len(v.members) == 0 {
			_, _ = w.WriteString("{}")
			return
		}
		_ = w.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			newline(w, depth+1)
			writeString(w, m.Key)
			_, _ = w.WriteString(": ")
			writeValue(w, m.Value, depth+1)
		}
		newline(w, depth)
		_ = w.WriteByte('}')
	}
}

func newline(w *bufio.Writer, depth int) {
	_ = w.WriteByte('\n')
	for i := 0; i < depth; i++ {
		_, _ = w.WriteString(indentUnit)
	}
}

const hexDigits = "0123456789abcdef"

// writeString quotes s using the minimal JSON escape set: quote, backslash
// and control characters. HTML-sensitive characters are left alone.
func writeString(w *bufio.Writer, s string) {
	_ = w.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			_, _ = w.WriteRune(r)
			i += size
			continue
		}
		switch c {
		case '"':
			_, _ = w.WriteString(`\"`)
		case '\\':
			_, _ = w.WriteString(`\\`)
		case '\b':
			_, _ = w.WriteString(`\b`)
		case '\f':
			_, _ = w.WriteString(`\f`)
		case '\n':
			_, _ = w.WriteString(`\n`)
		case '\r':
			_, _ = w.WriteString(`\r`)
		case '\t':
			_, _ = w.WriteString(`\t`)
		default:
			if c < 0x20 {
				_, _ = w.WriteString(`\u00`)
				_ = w.WriteByte(hexDigits[c>>4])
				_ = w.WriteByte(hexDigits[c&0xf])
			} else {
				_ = w.WriteByte(c)
			}
		}
		i++
	}
	_ = w.WriteByte('"')
}

// Package elide produces the "cleansed" shadow of C-family source lines:
// comments are removed and the contents of string, character and raw string
// literals are collapsed, so textual rules never fire inside them.
//
// Elision is line-preserving. The i-th elided line always corresponds to the
// i-th raw line, which keeps finding line numbers valid against the raw file.
package elide

import "strings"

type state int

const (
	stateCode state = iota
	stateBlockComment
	stateRawString
)

// Lines returns the elided form of lines. Block comments and raw strings
// spanning several lines are tracked across line boundaries.
func Lines(lines []string) []string {
	e := &elider{}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = e.line(line)
	}
	return out
}

type elider struct {
	state    state
	rawDelim string // closing sequence of the open raw string, e.g. `)foo"`
}

func (e *elider) line(line string) string {
	b := make([]byte, 0, len(line))
	i := 0
	n := len(line)

	for i < n {
		switch e.state {
		case stateBlockComment:
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				i = n
				continue
			}
			i += end + 2
			e.state = stateCode

		case stateRawString:
			end := strings.Index(line[i:], e.rawDelim)
			if end < 0 {
				i = n
				continue
			}
			i += end + len(e.rawDelim)
			e.state = stateCode
			b = append(b, `""`...)

		default:
			c := line[i]
			switch {
			case c == '/' && i+1 < n && line[i+1] == '/':
				return strings.TrimRight(string(b), " \t")

			case c == '/' && i+1 < n && line[i+1] == '*':
				e.state = stateBlockComment
				i += 2

			case c == '"' && isRawPrefix(line, i):
				open := strings.IndexByte(line[i+1:], '(')
				if open < 0 {
					// Malformed raw string; treat it as an ordinary string.
					i = skipQuoted(line, i, '"')
					b = append(b, `""`...)
					continue
				}
				delim := line[i+1 : i+1+open]
				b = b[:len(b)-rawPrefixLen(line, i)]
				e.rawDelim = ")" + delim + `"`
				e.state = stateRawString
				i += open + 2

			case c == '"':
				i = skipQuoted(line, i, '"')
				b = append(b, `""`...)

			case c == '\'' && !isDigitSeparator(line, i):
				i = skipQuoted(line, i, '\'')
				b = append(b, `''`...)

			default:
				b = append(b, c)
				i++
			}
		}
	}

	// A raw string that opened on this line and is still open contributes
	// nothing more until it closes.
	return strings.TrimRight(string(b), " \t")
}

// skipQuoted returns the index just past the literal starting at line[start],
// honouring backslash escapes. An unterminated literal runs to end of line.
func skipQuoted(line string, start int, quote byte) int {
	i := start + 1
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(line)
}

// rawPrefixLen returns the length of the encoding prefix plus the R that
// precede the raw string quote at line[i].
func rawPrefixLen(line string, i int) int {
	for _, prefix := range []string{"u8R", "uR", "UR", "LR"} {
		if strings.HasSuffix(line[:i], prefix) {
			return len(prefix)
		}
	}
	return 1
}

// isRawPrefix reports whether the quote at line[i] opens a C++11 raw string
// (R"…(, u8R"…(, LR"…( and friends).
func isRawPrefix(line string, i int) bool {
	if i == 0 || line[i-1] != 'R' {
		return false
	}
	j := i - 1
	for _, prefix := range []string{"u8", "u", "U", "L"} {
		if strings.HasSuffix(line[:j], prefix) {
			j -= len(prefix)
			break
		}
	}
	return j == 0 || !isIdentByte(line[j-1])
}

// isDigitSeparator reports whether the apostrophe at line[i] is a C++14 digit
// separator such as 1'000'000 rather than the start of a character literal.
func isDigitSeparator(line string, i int) bool {
	if i == 0 || i+1 >= len(line) {
		return false
	}
	return isHexDigit(line[i-1]) && isHexDigit(line[i+1]) && startsNumber(line, i)
}

func startsNumber(line string, i int) bool {
	j := i - 1
	for j >= 0 && (isHexDigit(line[j]) || line[j] == '\'' || line[j] == 'x' || line[j] == 'X') {
		j--
	}
	return j+1 < len(line) && line[j+1] >= '0' && line[j+1] <= '9' && (j < 0 || !isIdentByte(line[j]))
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

package remap

import (
	"regexp"
	"strings"
)

const commentMarker = '#'

// Line is one tokenized input line. Fields[i] is followed in the source by
// Seps[i]; the last separator may be empty. Comment holds everything from the
// first '#' on, marker included.
type Line struct {
	Fields  []string
	Seps    []string
	Comment string
}

// Split tokenizes raw (without its terminator) using separator.
func Split(raw string, separator *regexp.Regexp) Line {
	body, comment := raw, ""
	if i := strings.IndexByte(raw, commentMarker); i >= 0 {
		body, comment = raw[:i], raw[i:]
	}

	line := Line{Comment: comment}
	start := 0
	for _, m := range separator.FindAllStringIndex(body, -1) {
		line.Fields = append(line.Fields, body[start:m[0]])
		line.Seps = append(line.Seps, body[m[0]:m[1]])
		start = m[1]
	}
	if start < len(body) {
		line.Fields = append(line.Fields, body[start:])
		line.Seps = append(line.Seps, "")
	}
	return line
}

// Empty reports whether the line has no body fields.
func (l Line) Empty() bool {
	return len(l.Fields) == 0
}

// blank reports whether the body holds nothing but separators.
func (l Line) blank() bool {
	for _, f := range l.Fields {
		if f != "" {
			return false
		}
	}
	return true
}

// Field returns field i, or "" past the end.
func (l Line) Field(i int) string {
	if i < 0 || i >= len(l.Fields) {
		return ""
	}
	return l.Fields[i]
}

// String reassembles the line without a terminator.
func (l Line) String() string {
	var b strings.Builder
	for i, f := range l.Fields {
		b.WriteString(f)
		b.WriteString(l.Seps[i])
	}
	b.WriteString(l.Comment)
	return b.String()
}

// Join reassembles the line and terminates it with a single newline.
func (l Line) Join() string {
	return l.String() + "\n"
}

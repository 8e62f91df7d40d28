package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/awremap/internal/remap"
)

const (
	colorReset   = "\033[0m"
	colorDel     = "\033[31m"   // red
	colorAdd     = "\033[32m"   // green
	colorDim     = "\033[2m"
	colorDelHit  = "\033[1;31m" // bold red for rewritten tokens
	colorAddHit  = "\033[1;32m" // bold green
	colorSection = "\033[36m"   // cyan
)

type Options struct {
	Path  string // shown in the header when set
	Width int    // wrap width (0 = no wrap)
	Color bool
}

type palette struct {
	reset, del, add, dim, delHit, addHit, section string
}

func (o Options) palette() palette {
	if !o.Color {
		return palette{}
	}
	return palette{colorReset, colorDel, colorAdd, colorDim, colorDelHit, colorAddHit, colorSection}
}

// Changes renders every rewritten line as a -/+ pair under a line-number
// header. Unchanged lines are left out.
func Changes(changes []remap.Change, opts Options) string {
	p := opts.palette()
	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	if opts.Path != "" {
		writeLine(fmt.Sprintf("%s--- %s ---%s", p.dim, opts.Path, p.reset))
	}

	n := 0
	for _, c := range changes {
		if !c.Changed() {
			continue
		}
		n++
		writeLine(fmt.Sprintf("%s@@ line %d %s %s @@%s", p.section, c.Line, c.Kind, c.Outcome, p.reset))
		before, after := diffTokens(c.Before, c.After, p)
		writeLine(p.del + "-" + before + p.reset)
		writeLine(p.add + "+" + after + p.reset)
	}
	if n == 0 {
		writeLine(p.dim + "(no changes)" + p.reset)
	}
	return b.String()
}

// Change renders a single line in detail for the preview pane.
func Change(c remap.Change, opts Options) string {
	p := opts.palette()
	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	writeLine(fmt.Sprintf("%sline %d%s", p.section, c.Line, p.reset))
	writeLine(fmt.Sprintf("%skind: %s  outcome: %s%s", p.dim, c.Kind, c.Outcome, p.reset))
	writeLine("")

	before, after := diffTokens(c.Before, c.After, p)
	writeLine(p.dim + "before" + p.reset)
	writeLine("  " + p.del + before + p.reset)
	writeLine("")
	writeLine(p.dim + "after" + p.reset)
	writeLine("  " + p.add + after + p.reset)
	return b.String()
}

// diffTokens marks the whitespace separated tokens that differ between the
// two lines. Lines with a different token count are returned unmarked.
func diffTokens(before, after string, p palette) (string, string) {
	if p.delHit == "" {
		return before, after
	}
	bt, at := strings.Fields(before), strings.Fields(after)
	if len(bt) != len(at) {
		return before, after
	}
	changed := make(map[int]bool)
	for i := range bt {
		if bt[i] != at[i] {
			changed[i] = true
		}
	}
	return markTokens(before, changed, p.delHit, p.del), markTokens(after, changed, p.addHit, p.add)
}

// markTokens wraps the tokens whose index is in marked with hit, switching
// back to base afterwards.
func markTokens(line string, marked map[int]bool, hit, base string) string {
	if len(marked) == 0 {
		return line
	}
	var b strings.Builder
	tok := -1
	inTok := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		space := c == ' ' || c == '\t'
		if !space && !inTok {
			inTok = true
			tok++
			if marked[tok] {
				b.WriteString(hit)
			}
		}
		if space && inTok {
			inTok = false
			if marked[tok] {
				b.WriteString(base)
			}
		}
		b.WriteByte(c)
	}
	if inTok && marked[tok] {
		b.WriteString(base)
	}
	return b.String()
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)
		if r == '\t' {
			rw = 1
		}

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

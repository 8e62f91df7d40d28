package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zuo-Peng/awremap/internal/remap"
)

var sample = []remap.Change{
	{Line: 1, Kind: remap.KindOther, Outcome: remap.Passthrough, Before: "accessWidener v2 named", After: "accessWidener v2 named"},
	{Line: 2, Kind: remap.KindClass, Outcome: remap.Remapped, Before: "accessible class a/b/C", After: "accessible class x/y/Z"},
	{Line: 3, Kind: remap.KindField, Outcome: remap.Missed, Before: "accessible field q f I", After: "accessible field q f I"},
}

func TestChangesPlain(t *testing.T) {
	got := Changes(sample, Options{Path: "mod.accesswidener"})
	assert.Equal(t, "--- mod.accesswidener ---\n"+
		"@@ line 2 class remapped @@\n"+
		"-accessible class a/b/C\n"+
		"+accessible class x/y/Z\n", got)
}

func TestChangesNone(t *testing.T) {
	assert.Equal(t, "(no changes)\n", Changes(sample[:1], Options{}))
}

func TestChangesColorMarksTokens(t *testing.T) {
	got := Changes(sample, Options{Color: true})
	assert.Contains(t, got, colorDel+"-accessible class "+colorDelHit+"a/b/C"+colorDel+colorReset)
	assert.Contains(t, got, colorAdd+"+accessible class "+colorAddHit+"x/y/Z"+colorAdd+colorReset)
}

func TestChange(t *testing.T) {
	got := Change(sample[1], Options{})
	assert.Equal(t, "line 2\n"+
		"kind: class  outcome: remapped\n"+
		"\n"+
		"before\n"+
		"  accessible class a/b/C\n"+
		"\n"+
		"after\n"+
		"  accessible class x/y/Z\n", got)
}

func TestMarkTokens(t *testing.T) {
	got := markTokens("  a\tbb  c", map[int]bool{1: true}, "<", ">")
	assert.Equal(t, "  a\t<bb>  c", got)

	got = markTokens("a b", map[int]bool{1: true}, "<", ">")
	assert.Equal(t, "a <b>", got)
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	assert.Equal(t, []string{"abcdef"}, wrapLine("abcdef", 0))
	assert.Equal(t, []string{""}, wrapLine("", 4))

	// escapes take no columns
	colored := colorAdd + "abcd" + colorReset
	assert.Equal(t, []string{colored}, wrapLine(colored, 4))

	// wide runes count twice
	assert.Equal(t, []string{"日本", "語"}, wrapLine("日本語", 4))
	assert.True(t, strings.HasPrefix(wrapLine("ab日", 3)[1], "日"))
}

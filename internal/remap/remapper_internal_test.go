package remap

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/awremap/internal/mapping"
)

type nopProvider struct{}

func (nopProvider) Class(string) (string, bool) { return "", false }
func (nopProvider) Field(string, string, string) (mapping.Member, bool) {
	return mapping.Member{}, false
}
func (nopProvider) Method(string, string, string) (mapping.Member, bool) {
	return mapping.Member{}, false
}
func (nopProvider) RemapDescriptor(desc string) string { return desc }

func TestEntryCounterSaturates(t *testing.T) {
	in := "accessWidener v1 named\na class b\na class c\na class d\n"
	rm := New(nopProvider{}, strings.NewReader(in), io.Discard)
	rm.stats.Entries = math.MaxInt64 - 1

	count, err := rm.Remap()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), count)
}

func TestScanLines(t *testing.T) {
	in := "a\r\nb\rc\n\nd\r"
	scanner := bufio.NewScanner(iotest.OneByteReader(strings.NewReader(in)))
	scanner.Split(scanLines)

	var got []string
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"a", "b", "c", "", "d"}, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"accessible class a/b/C", KindClass},
		{"accessible class", KindOther},
		{"accessible field a/b/C f I", KindField},
		{"accessible field a/b/C f", KindOther},
		{"accessible method a/b/C m ()V", KindMethod},
		{"accessible Class a/b/C", KindOther},
		{"accessible", KindOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(Split(tt.raw, v1Separator)), tt.raw)
	}
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Entries: 2, Classes: 1, Misses: 1}
	s.Add(Stats{Entries: 3, Members: 2, Other: 1})
	assert.Equal(t, Stats{Entries: 5, Classes: 1, Members: 2, Misses: 1, Other: 1}, s)

	s = Stats{Entries: math.MaxInt64 - 1}
	s.Add(Stats{Entries: 5})
	assert.Equal(t, int64(math.MaxInt64), s.Entries)
}

func TestRemapLineTooLong(t *testing.T) {
	in := "accessWidener v1 named\n" +
		"accessible class a\n" +
		strings.Repeat("x", maxLineSize+1) + "\n"
	var out bytes.Buffer
	count, err := New(nopProvider{}, strings.NewReader(in), &out).Remap()

	require.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Contains(t, err.Error(), "read line 3")
	assert.Equal(t, int64(1), count)
	// lines before the failure are still flushed
	assert.Equal(t, "accessWidener v1 named\naccessible class a\n", out.String())
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRemapReadErrorKeepsFlushError(t *testing.T) {
	readErr := errors.New("connection reset")
	in := io.MultiReader(strings.NewReader("accessWidener v1 named\n"), iotest.ErrReader(readErr))

	_, err := New(nopProvider{}, in, brokenWriter{}).Remap()
	require.ErrorIs(t, err, readErr)
	assert.Contains(t, err.Error(), "disk full")
}

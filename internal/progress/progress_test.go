package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderCounts(t *testing.T) {
	var totals []int64
	r := NewReader(iotest.HalfReader(strings.NewReader("abcdefgh")), func(n int64) {
		totals = append(totals, n)
	})

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", string(data))
	assert.Equal(t, int64(8), r.N())
	require.NotEmpty(t, totals)
	assert.Equal(t, int64(8), totals[len(totals)-1])
	for i := 1; i < len(totals); i++ {
		assert.Greater(t, totals[i], totals[i-1])
	}
}

func TestReporterPrintsOnChange(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, "Loading...", 200)
	rep.Update(1)
	rep.Update(2)
	rep.Update(3)
	rep.Update(200)

	assert.Equal(t, "Loading... 0%\rLoading... 1%\rLoading... 100%\r", buf.String())
}

func TestReporterEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, "Remapping...", 0)
	_, err := io.ReadAll(rep.Wrap(strings.NewReader("x")))
	require.NoError(t, err)

	assert.Equal(t, "Remapping... 0%\rRemapping... 100%\r", buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1 seconds"},
		{1234 * time.Millisecond, "1.234 seconds"},
		{time.Minute, "1 minutes"},
		{time.Minute + 5*time.Millisecond, "1 minutes 0.005 seconds"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "1 days 2 hours 3 minutes 4 seconds"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d), tt.d.String())
	}
}

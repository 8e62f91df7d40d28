package progress

import (
	"fmt"
	"io"
)

// Reader counts the bytes read through it and reports the running total.
type Reader struct {
	r        io.Reader
	n        int64
	callback func(int64)
}

func NewReader(r io.Reader, callback func(read int64)) *Reader {
	return &Reader{r: r, callback: callback}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.n += int64(n)
		r.callback(r.n)
	}
	return n, err
}

// N returns the number of bytes read so far.
func (r *Reader) N() int64 {
	return r.n
}

// Reporter prints "<message> <percent>%" with a carriage return whenever the
// integer percentage changes.
type Reporter struct {
	w       io.Writer
	message string
	total   int64
	percent int
}

func NewReporter(w io.Writer, message string, total int64) *Reporter {
	fmt.Fprintf(w, "%s 0%%\r", message)
	return &Reporter{w: w, message: message, total: total}
}

// Update is a Reader callback.
func (r *Reporter) Update(read int64) {
	percent := 100
	if r.total > 0 {
		percent = int(read * 100 / r.total)
	}
	if percent == r.percent {
		return
	}
	r.percent = percent
	fmt.Fprintf(r.w, "%s %d%%\r", r.message, percent)
}

// Wrap returns a Reader reporting to r.
func (r *Reporter) Wrap(src io.Reader) *Reader {
	return NewReader(src, r.Update)
}

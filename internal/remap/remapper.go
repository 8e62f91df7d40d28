package remap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Zuo-Peng/awremap/internal/mapping"
)

const headerKeyword = "accessWidener"

var (
	ErrMissingHeader = errors.New("missing access widener header")
	ErrInvalidHeader = errors.New("invalid access widener header")
)

// Stats counts what a run did. Entries is the number of non-empty lines after
// the header; the other counters break it down.
type Stats struct {
	Entries      int64
	Classes      int64
	Members      int64
	Constructors int64
	Misses       int64
	Other        int64
}

func (s Stats) String() string {
	return fmt.Sprintf("entries=%d classes=%d members=%d constructors=%d misses=%d other=%d",
		s.Entries, s.Classes, s.Members, s.Constructors, s.Misses, s.Other)
}

// Add accumulates o into s. Counters saturate at math.MaxInt64.
func (s *Stats) Add(o Stats) {
	s.Entries = satAdd(s.Entries, o.Entries)
	s.Classes = satAdd(s.Classes, o.Classes)
	s.Members = satAdd(s.Members, o.Members)
	s.Constructors = satAdd(s.Constructors, o.Constructors)
	s.Misses = satAdd(s.Misses, o.Misses)
	s.Other = satAdd(s.Other, o.Other)
}

func satAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Change describes one written line. Line is 1-based; Before and After carry
// no terminator.
type Change struct {
	Line    int
	Kind    Kind
	Outcome Outcome
	Before  string
	After   string
}

// Changed reports whether the line was rewritten.
func (c Change) Changed() bool {
	return c.Before != c.After
}

type Option func(*Remapper)

// WithObserver registers fn to be called for every line written, header included.
func WithObserver(fn func(Change)) Option {
	return func(r *Remapper) {
		r.observe = fn
	}
}

// Remapper rewrites one access widener stream. It is single use.
type Remapper struct {
	provider Provider
	scanner  *bufio.Scanner
	w        *bufio.Writer
	observe  func(Change)

	version Version
	lineNum int
	stats   Stats
}

func New(p Provider, r io.Reader, w io.Writer, opts ...Option) *Remapper {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)

	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}

	rm := &Remapper{provider: p, scanner: scanner, w: bw}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// Remap copies the input to the output, renaming every class, field and
// method entry the provider resolves, and returns the number of entries.
// Nothing is written when the header is missing or invalid.
func (r *Remapper) Remap() (int64, error) {
	version, err := r.readHeader()
	if err != nil {
		return 0, err
	}
	r.version = version
	sep := version.Separator()

	for r.scanner.Scan() {
		r.lineNum++
		raw := r.scanner.Text()
		line := Split(raw, sep)

		change := Change{Line: r.lineNum, Before: raw}
		if !line.Empty() {
			change.Kind, change.Outcome = r.handle(&line)
			if r.stats.Entries < math.MaxInt64 {
				r.stats.Entries++
			}
		}
		if err := r.write(line, change); err != nil {
			return r.stats.Entries, err
		}
	}
	if err := r.scanner.Err(); err != nil {
		err = fmt.Errorf("read line %d: %w", r.lineNum+1, err)
		if ferr := r.w.Flush(); ferr != nil {
			err = errors.Join(err, fmt.Errorf("flush: %w", ferr))
		}
		return r.stats.Entries, err
	}
	if err := r.w.Flush(); err != nil {
		return r.stats.Entries, fmt.Errorf("flush: %w", err)
	}
	return r.stats.Entries, nil
}

// readHeader consumes lines up to and including the header. Leading blank
// lines are held back until the header has been validated.
func (r *Remapper) readHeader() (Version, error) {
	var pending []Line
	for r.scanner.Scan() {
		r.lineNum++
		raw := r.scanner.Text()
		line := Split(raw, v1Separator)
		if line.blank() {
			pending = append(pending, line)
			continue
		}

		version, ok := ParseVersion(line.Field(1))
		if line.Field(0) != headerKeyword || !ok {
			return 0, fmt.Errorf("%w: line %d: %q", ErrInvalidHeader, r.lineNum, raw)
		}

		first := r.lineNum - len(pending)
		for i, p := range pending {
			if err := r.write(p, Change{Line: first + i, Before: p.String()}); err != nil {
				return 0, err
			}
		}
		if err := r.write(line, Change{Line: r.lineNum, Before: raw}); err != nil {
			return 0, err
		}
		return version, nil
	}
	if err := r.scanner.Err(); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	return 0, ErrMissingHeader
}

func (r *Remapper) handle(line *Line) (Kind, Outcome) {
	kind := classify(*line)
	switch kind {
	case KindClass:
		return kind, r.remapClass(line)
	case KindField:
		return kind, r.remapMember(line, r.provider.Field)
	case KindMethod:
		return kind, r.remapMember(line, r.provider.Method)
	}
	r.stats.Other++
	return kind, Passthrough
}

func (r *Remapper) remapClass(line *Line) Outcome {
	name, ok := r.provider.Class(line.Fields[idxOwner])
	if !ok {
		r.stats.Misses++
		return Missed
	}
	line.Fields[idxOwner] = name
	r.stats.Classes++
	return Remapped
}

func (r *Remapper) remapMember(line *Line, lookup func(owner, name, desc string) (mapping.Member, bool)) Outcome {
	owner, desc := line.Fields[idxOwner], line.Fields[idxDesc]
	if m, ok := lookup(owner, line.Fields[idxName], desc); ok {
		line.Fields[idxOwner] = m.Owner
		line.Fields[idxName] = m.Name
		line.Fields[idxDesc] = m.Desc
		r.stats.Members++
		return Remapped
	}

	// probably a constructor: <init> keeps its name, owner and descriptor move
	name, ok := r.provider.Class(owner)
	if !ok {
		r.stats.Misses++
		return Missed
	}
	line.Fields[idxOwner] = name
	line.Fields[idxDesc] = r.provider.RemapDescriptor(desc)
	r.stats.Constructors++
	return Constructor
}

func (r *Remapper) write(line Line, change Change) error {
	out := line.Join()
	if _, err := r.w.WriteString(out); err != nil {
		return fmt.Errorf("write line %d: %w", change.Line, err)
	}
	if r.observe != nil {
		change.After = out[:len(out)-1]
		r.observe(change)
	}
	return nil
}

// Stats returns the counters of the last Remap call.
func (r *Remapper) Stats() Stats {
	return r.stats
}

// Version returns the format version read from the header, or 0 before Remap.
func (r *Remapper) Version() Version {
	return r.version
}

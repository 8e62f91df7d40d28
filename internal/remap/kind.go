package remap

//go:generate go tool stringer -type=Kind,Outcome -linecomment -output=kind_string.go

// Kind is the entry kind keyword in field 1 of an entry line.
type Kind int

const (
	KindOther  Kind = iota // other
	KindClass              // class
	KindField              // field
	KindMethod             // method
)

// Field positions inside an entry line.
const (
	idxKind  = 1
	idxOwner = 2
	idxName  = 3
	idxDesc  = 4
)

// classify returns the kind of line. A line too short to carry the symbol its
// keyword announces is KindOther.
func classify(line Line) Kind {
	switch line.Field(idxKind) {
	case "class":
		if len(line.Fields) > idxOwner {
			return KindClass
		}
	case "field":
		if len(line.Fields) > idxDesc {
			return KindField
		}
	case "method":
		if len(line.Fields) > idxDesc {
			return KindMethod
		}
	}
	return KindOther
}

// Outcome is what happened to one written line.
type Outcome int

const (
	Passthrough Outcome = iota // passthrough
	Remapped                   // remapped
	Constructor                // constructor
	Missed                     // missed
)

package models

// MemberKind represents the kind of item found inside an impl block
type MemberKind int

const (
	MemberKindMethod MemberKind = iota
	MemberKindOther
)

// Member represents a single item of an impl block. Methods carry a parsed
// signature; everything else is carried through as opaque source text and is
// never modified or duplicated.
type Member struct {
	Kind   MemberKind
	Method *Method // set when Kind == MemberKindMethod
	Raw    string  // verbatim source text of the item, including leading doc comments

	// Synthesized marks members produced by the transform rather than
	// parsed from source. Their Raw text is rendered at zero indentation.
	Synthesized bool
}

// Method represents one fn item with its parsed signature and verbatim body
type Method struct {
	Signature MethodSignature

	// SignatureText is the exact declaration text from the first modifier
	// through the closing of the return type, without attributes or doc
	// comments. Wrapper signatures are derived from it textually so that
	// generics and where clauses survive unchanged.
	SignatureText string

	// Body is the verbatim body text including the surrounding braces.
	Body string
}

// MethodSignature describes the declaration head of a method
type MethodSignature struct {
	Name       string
	IsAsync    bool
	Parameters []Parameter
}

// HasReceiver reports whether the first parameter is a receiver marker
func (s MethodSignature) HasReceiver() bool {
	return len(s.Parameters) > 0 && s.Parameters[0].Receiver
}

// Parameter represents one entry of a parameter list: either a receiver
// marker or a named binding pattern with its declared type
type Parameter struct {
	Receiver bool
	Pattern  string // receiver text ("&self", "&mut self", ...) or the binding pattern
	Type     string // raw type text; empty for receivers
}

// MethodCollection is the ordered member list of one impl block, scoped to
// the owning type
type MethodCollection struct {
	// TypeName is the base identifier of the self type, used to qualify
	// associated-function calls.
	TypeName string

	// Header is the verbatim impl header text up to the opening brace,
	// e.g. "impl<T> Store<T>". Rendering reuses it so generics and trait
	// impls survive the round trip.
	Header string

	Members []Member
}

// Clone returns a deep copy of the collection. Transform output never
// aliases the input member list.
func (c *MethodCollection) Clone() *MethodCollection {
	out := &MethodCollection{
		TypeName: c.TypeName,
		Members:  make([]Member, len(c.Members)),
	}
	for i, m := range c.Members {
		out.Members[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the member
func (m Member) Clone() Member {
	cloned := m
	if m.Method != nil {
		method := *m.Method
		method.Signature.Parameters = append([]Parameter(nil), m.Method.Signature.Parameters...)
		cloned.Method = &method
	}
	return cloned
}

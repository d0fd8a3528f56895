// Package analyzer recovers type-level structure from C# source text
// without a compiler frontend. It is deliberately heuristic: a masking
// tokenizer hides comment and string content, declaration headers are
// recognized by pattern, and scope extents come from brace balance.
// The output contract is StructuralDocument; a full-grammar parser
// could replace the internals without touching downstream code.
package analyzer

// TypeKind is the syntactic kind of a declaration, independent of the
// semantic classification applied later.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindRecord    TypeKind = "record"
	KindStruct    TypeKind = "struct"
)

// MemberKind distinguishes the coarse member categories the scanner
// recognizes.
type MemberKind string

const (
	MemberMethod   MemberKind = "method"
	MemberProperty MemberKind = "property"
	MemberField    MemberKind = "field"
)

// Span is a 1-based, inclusive line range in the source file.
type Span struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// Contains reports whether the given line falls inside the span.
func (s Span) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// Member is a method, property, or field header found inside a
// declaration. Signature is the trimmed header text, not a resolved
// type signature.
type Member struct {
	Name       string     `json:"name"`
	Kind       MemberKind `json:"kind"`
	Modifiers  []string   `json:"modifiers,omitempty"`
	Signature  string     `json:"signature"`
	Line       int        `json:"line"`
	ReturnType string     `json:"return_type,omitempty"` // methods only, best effort
	HasGetter  bool       `json:"has_getter,omitempty"`  // properties only
	HasSetter  bool       `json:"has_setter,omitempty"`  // properties only
	IsReadonly bool       `json:"is_readonly,omitempty"` // fields only
	IsStatic   bool       `json:"is_static,omitempty"`
}

// TypeDeclaration is a named type found in source text. Name is unique
// only within its containing file and namespace; duplicates across
// files are expected and preserved.
type TypeDeclaration struct {
	Name      string   `json:"name"`
	Kind      TypeKind `json:"kind"`
	Modifiers []string `json:"modifiers,omitempty"`
	BaseTypes []string `json:"base_types,omitempty"`
	Members   []Member `json:"members,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Span      Span     `json:"span"`
	File      string   `json:"file"` // path relative to the scanned root
}

// HasModifier reports whether the declaration carries the modifier.
func (d *TypeDeclaration) HasModifier(mod string) bool {
	for _, m := range d.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// FileStats summarizes a single file.
type FileStats struct {
	TotalLines   int    `json:"total_lines"`
	CodeLines    int    `json:"code_lines"`
	CommentLines int    `json:"comment_lines"`
	BlankLines   int    `json:"blank_lines"`
	HasXMLDocs   bool   `json:"has_xml_docs"`
	Complexity   string `json:"complexity"` // "Low", "Medium", "High"
}

// StructuralDocument is the parsed structure of one source file.
// Declarations keep source appearance order; that order is the
// deterministic first-match tie-break everywhere downstream.
type StructuralDocument struct {
	Path         string            `json:"path,omitempty"`
	Namespace    string            `json:"namespace,omitempty"`
	Usings       []string          `json:"usings,omitempty"`
	Declarations []TypeDeclaration `json:"declarations"`
	Stats        FileStats         `json:"stats"`
}

// ParseWarning records a recovered-from problem. Warnings never fail a
// parse; they are accumulated so callers can audit coverage gaps.
type ParseWarning struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

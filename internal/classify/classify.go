// Package classify assigns a semantic role to each parsed type
// declaration. Naming-convention classification is inherently fuzzy,
// so the rules form a fixed priority list instead of a score: the same
// input always produces the same kind, and tests can pin outcomes.
package classify

import (
	"strings"

	"github.com/JavierFrauca/mcp-code-manager/internal/analyzer"
	"github.com/JavierFrauca/mcp-code-manager/internal/config"
)

// ElementKind is the semantic role of a declaration.
type ElementKind string

const (
	DTO          ElementKind = "dto"
	Service      ElementKind = "service"
	Controller   ElementKind = "controller"
	Interface    ElementKind = "interface"
	Enum         ElementKind = "enum"
	Record       ElementKind = "record"
	Struct       ElementKind = "struct"
	GenericClass ElementKind = "class"
)

// All lists every element kind in a stable order, usable for
// argument validation and aggregate reports.
func All() []ElementKind {
	return []ElementKind{DTO, Service, Controller, Interface, Enum, Record, Struct, GenericClass}
}

// ParseKind maps a user-supplied kind string onto an ElementKind.
func ParseKind(s string) (ElementKind, bool) {
	for _, k := range All() {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Context carries the declaration surroundings the rules may consult.
type Context struct {
	FileName  string
	Namespace string
}

// Classifier applies the configured naming policy.
type Classifier struct {
	policy config.ClassifierConfig
}

// New creates a classifier with the given policy.
func New(policy config.ClassifierConfig) *Classifier {
	return &Classifier{policy: policy}
}

// Classify assigns exactly one ElementKind to a declaration. Rules are
// evaluated in a fixed order; the first match wins:
//  1. syntactic interface
//  2. syntactic enum
//  3. DTO suffix with no method members
//  4. Service suffix or services-area namespace segment
//  5. Controller suffix or controller base type
//  6. syntactic record / struct, otherwise generic class
func (c *Classifier) Classify(decl *analyzer.TypeDeclaration, ctx Context) ElementKind {
	switch decl.Kind {
	case analyzer.KindInterface:
		return Interface
	case analyzer.KindEnum:
		return Enum
	}

	if c.isDTO(decl) {
		return DTO
	}
	if c.isService(decl, ctx) {
		return Service
	}
	if c.isController(decl) {
		return Controller
	}

	switch decl.Kind {
	case analyzer.KindRecord:
		return Record
	case analyzer.KindStruct:
		return Struct
	}
	return GenericClass
}

func (c *Classifier) isDTO(decl *analyzer.TypeDeclaration) bool {
	if !hasSuffix(decl.Name, c.policy.DTOSuffixes) {
		return false
	}
	// A data carrier stops being one the moment it grows behavior.
	for _, m := range decl.Members {
		if m.Kind == analyzer.MemberMethod {
			return false
		}
	}
	return true
}

func (c *Classifier) isService(decl *analyzer.TypeDeclaration, ctx Context) bool {
	if hasSuffix(decl.Name, c.policy.ServiceSuffixes) {
		return true
	}
	for _, segment := range strings.Split(ctx.Namespace, ".") {
		for _, area := range c.policy.ServiceNamespaces {
			if segment == area {
				return true
			}
		}
	}
	return false
}

func (c *Classifier) isController(decl *analyzer.TypeDeclaration) bool {
	if hasSuffix(decl.Name, c.policy.ControllerSuffixes) {
		return true
	}
	for _, base := range decl.BaseTypes {
		// Generic controller bases match on the name before the
		// type-argument list.
		if i := strings.Index(base, "<"); i >= 0 {
			base = base[:i]
		}
		for _, known := range c.policy.ControllerBases {
			if base == known {
				return true
			}
		}
	}
	return false
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Package index builds the aggregated, queryable structural map of a
// scanned file tree. A SolutionIndex is a value owned by whoever asked
// for the build; nothing in this package caches or mutates one after
// Build returns.
package index

import (
	"sort"

	"github.com/JavierFrauca/mcp-code-manager/internal/analyzer"
	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
)

// Declaration is a parsed type declaration with its semantic
// classification and namespace context attached.
type Declaration struct {
	analyzer.TypeDeclaration
	Element   classify.ElementKind `json:"element"`
	Namespace string               `json:"namespace,omitempty"`
}

// FileEntry couples a file with its parsed structure.
type FileEntry struct {
	Path         string                       `json:"path"`
	Document     *analyzer.StructuralDocument `json:"document"`
	Declarations []*Declaration               `json:"declarations"`
}

// Project is a .csproj discovered in the tree with the source files
// that sit under its directory.
type Project struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Directory string   `json:"directory"`
	Files     []string `json:"files,omitempty"`
}

// Stats holds aggregate counts computed once at build time.
type Stats struct {
	TotalFiles        int                          `json:"total_files"`
	TotalDeclarations int                          `json:"total_declarations"`
	TotalClasses      int                          `json:"total_classes"`
	TotalInterfaces   int                          `json:"total_interfaces"`
	TotalEnums        int                          `json:"total_enums"`
	TotalRecords      int                          `json:"total_records"`
	TotalStructs      int                          `json:"total_structs"`
	TotalLines        int                          `json:"total_lines"`
	TotalNamespaces   int                          `json:"total_namespaces"`
	KindCounts        map[classify.ElementKind]int `json:"kind_counts"`
}

// NamespaceEdge is one dependency between two declared namespaces,
// derived from using-directives.
type NamespaceEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NamespaceGraph summarizes how the declared namespaces reference each
// other. Edges only connect namespaces that are both declared in the
// scanned tree; external references are ignored.
type NamespaceGraph struct {
	Edges  []NamespaceEdge `json:"edges,omitempty"`
	Cycles [][]string      `json:"cycles,omitempty"`
}

// SolutionIndex is the structural map of one analysis root. Every
// bucket keeps declarations ordered by (file path ascending, span
// start ascending), so identical trees index identically regardless
// of filesystem enumeration order.
type SolutionIndex struct {
	BuildID     string                                  `json:"build_id"`
	Root        string                                  `json:"root"`
	ByNamespace map[string][]*Declaration               `json:"by_namespace"`
	ByKind      map[classify.ElementKind][]*Declaration `json:"by_kind"`
	ByFile      map[string]*FileEntry                   `json:"by_file"`
	Projects    []Project                               `json:"projects,omitempty"`
	Stats       Stats                                   `json:"stats"`
	Graph       NamespaceGraph                          `json:"graph"`
	// Warnings retains every recovered problem from the build so
	// callers can audit coverage gaps.
	Warnings []analyzer.ParseWarning `json:"warnings,omitempty"`
	// Files lists indexed file paths in ascending order.
	Files []string `json:"files"`
}

// Declarations returns every declaration in deterministic bucket
// order.
func (idx *SolutionIndex) Declarations() []*Declaration {
	var all []*Declaration
	for _, path := range idx.Files {
		if entry, ok := idx.ByFile[path]; ok {
			all = append(all, entry.Declarations...)
		}
	}
	return all
}

// Namespaces returns the declared namespaces in ascending order.
func (idx *SolutionIndex) Namespaces() []string {
	names := make([]string, 0, len(idx.ByNamespace))
	for ns := range idx.ByNamespace {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// Package search answers structural queries against a scanned tree.
// The engine is stateless between calls: every query is a function of
// (root, query, current tree contents). The only cross-call state is
// the optional index cache, which is invalidated on any change under
// a cached root.
package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JavierFrauca/mcp-code-manager/internal/analyzer"
	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
	"github.com/JavierFrauca/mcp-code-manager/internal/config"
	"github.com/JavierFrauca/mcp-code-manager/internal/index"
	"github.com/JavierFrauca/mcp-code-manager/internal/source"
)

// Mode selects the find_class strategy.
type Mode string

const (
	// ModeDirect restricts the lookup to files whose name matches the
	// query (shallow, fast).
	ModeDirect Mode = "direct"
	// ModeDeep builds the full index before matching (exhaustive,
	// slow).
	ModeDeep Mode = "deep"
)

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeDirect):
		return ModeDirect, nil
	case string(ModeDeep):
		return ModeDeep, nil
	default:
		return "", fmt.Errorf("unknown search mode %q: %w", s, ErrInvalidArgument)
	}
}

// ClassMatch is one declaration matching a find_class query. When a
// name resolves ambiguously every match is returned; Primary marks the
// first in deterministic order, never a silently chosen winner.
type ClassMatch struct {
	Declaration *index.Declaration `json:"declaration"`
	Primary     bool               `json:"primary"`
}

// FindClassResult is the structured outcome of find_class.
type FindClassResult struct {
	ClassName string                  `json:"class_name"`
	Mode      Mode                    `json:"mode"`
	Matches   []ClassMatch            `json:"matches"`
	Ambiguous bool                    `json:"ambiguous"`
	Warnings  []analyzer.ParseWarning `json:"warnings,omitempty"`
}

// FileAnalysis couples a file's raw content with its structure.
type FileAnalysis struct {
	Path         string                       `json:"path"`
	Content      string                       `json:"content"`
	Encoding     string                       `json:"encoding"`
	Lines        int                          `json:"lines"`
	Document     *analyzer.StructuralDocument `json:"document"`
	Declarations []*index.Declaration         `json:"declarations"`
	Warnings     []analyzer.ParseWarning      `json:"warnings,omitempty"`
}

// NamespaceFile summarizes one file inside a namespace listing.
type NamespaceFile struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Declarations int    `json:"declarations"`
	Methods      int    `json:"methods"`
	Properties   int    `json:"properties"`
	Lines        int    `json:"lines"`
}

// SolutionStructure is the aggregate view of a scanned tree.
type SolutionStructure struct {
	Root       string                       `json:"root"`
	BuildID    string                       `json:"build_id"`
	Namespaces map[string][]NamespaceFile   `json:"namespaces"`
	KindCounts map[classify.ElementKind]int `json:"kind_counts"`
	Stats      index.Stats                  `json:"stats"`
	Graph      index.NamespaceGraph         `json:"graph"`
	Projects   []index.Project              `json:"projects,omitempty"`
	Warnings   []analyzer.ParseWarning      `json:"warnings,omitempty"`
}

// Engine executes structural queries. Safe for concurrent use across
// roots and queries.
type Engine struct {
	cfg        *config.Config
	parser     *analyzer.Parser
	classifier *classify.Classifier
	builder    *index.Builder
	cache      *IndexCache
	progress   index.ProgressReporter
}

// NewEngine creates a search engine. progress may be nil.
func NewEngine(cfg *config.Config, progress index.ProgressReporter) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	classifier := classify.New(cfg.Classifier)

	e := &Engine{
		cfg:        cfg,
		parser:     analyzer.NewParser(),
		classifier: classifier,
		builder:    index.NewBuilder(classifier, cfg.Index.Workers, progress),
		progress:   progress,
	}

	if cfg.Cache.Enabled {
		cache, err := NewIndexCache(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create index cache: %w", err)
		}
		e.cache = cache
	}

	return e, nil
}

// Close releases the cache and any root watchers.
func (e *Engine) Close() error {
	if e.cache != nil {
		e.cache.Close()
	}
	return nil
}

// FindClass locates a class (or any named type) under root.
func (e *Engine) FindClass(ctx context.Context, root, className string, mode Mode) (*FindClassResult, error) {
	if strings.TrimSpace(className) == "" {
		return nil, fmt.Errorf("class name must not be blank: %w", ErrInvalidArgument)
	}

	provider, err := e.provider(root)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var result *FindClassResult
	switch mode {
	case ModeDeep:
		result, err = e.deepSearch(ctx, provider, className)
	default:
		result, err = e.directSearch(ctx, provider, className)
	}
	if err != nil {
		return nil, normalizeErr(err)
	}
	return result, nil
}

// directSearch looks for files whose name suggests they declare the
// class, parses only those, and verifies the declaration is present.
// Case-sensitive filename matches are preferred; the case-insensitive
// fallback only applies when no exact match exists.
func (e *Engine) directSearch(ctx context.Context, provider source.Provider, className string) (*FindClassResult, error) {
	files, err := provider.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	candidates := directCandidates(className)
	var exact, folded []string
	for _, f := range files {
		base := filepath.Base(f)
		for _, cand := range candidates {
			if base == cand {
				exact = append(exact, f)
				break
			}
			if strings.EqualFold(base, cand) {
				folded = append(folded, f)
				break
			}
		}
	}
	if len(exact) == 0 {
		exact = folded
	}
	if len(exact) == 0 {
		return nil, fmt.Errorf("no file matching class %q under root: %w", className, ErrNotFound)
	}

	result := &FindClassResult{ClassName: className, Mode: ModeDirect}
	for _, path := range exact {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		analysis, err := e.analyzeFile(ctx, provider, path)
		if err != nil {
			continue
		}
		result.Warnings = append(result.Warnings, analysis.Warnings...)
		for _, d := range analysis.Declarations {
			if d.Name == className {
				result.Matches = append(result.Matches, ClassMatch{Declaration: d})
			}
		}
	}
	if len(result.Matches) == 0 {
		return nil, fmt.Errorf("class %q not declared in any matching file: %w", className, ErrNotFound)
	}

	result.Matches[0].Primary = true
	result.Ambiguous = len(result.Matches) > 1
	return result, nil
}

// deepSearch matches against the full index. Duplicate declarations
// across files are all returned, ordered by (file path, span start).
func (e *Engine) deepSearch(ctx context.Context, provider source.Provider, className string) (*FindClassResult, error) {
	idx, err := e.solutionIndex(ctx, provider)
	if err != nil {
		return nil, err
	}

	result := &FindClassResult{ClassName: className, Mode: ModeDeep, Warnings: idx.Warnings}
	for _, d := range idx.Declarations() {
		if d.Name == className {
			result.Matches = append(result.Matches, ClassMatch{Declaration: d})
		}
	}
	if len(result.Matches) == 0 {
		return nil, fmt.Errorf("class %q not found in solution: %w", className, ErrNotFound)
	}

	result.Matches[0].Primary = true
	result.Ambiguous = len(result.Matches) > 1
	return result, nil
}

// FindElements returns every declaration of the given kind whose name
// contains namePattern (case-insensitive). An empty pattern returns
// all declarations of that kind.
func (e *Engine) FindElements(ctx context.Context, root, kind, namePattern string) ([]*index.Declaration, error) {
	elementKind, ok := classify.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown element kind %q: %w", kind, ErrInvalidArgument)
	}

	provider, err := e.provider(root)
	if err != nil {
		return nil, normalizeErr(err)
	}
	idx, err := e.solutionIndex(ctx, provider)
	if err != nil {
		return nil, normalizeErr(err)
	}

	pattern := strings.ToLower(strings.TrimSpace(namePattern))
	matches := []*index.Declaration{}
	for _, d := range idx.ByKind[elementKind] {
		if pattern == "" || strings.Contains(strings.ToLower(d.Name), pattern) {
			matches = append(matches, d)
		}
	}
	return matches, nil
}

// GetFileWithAnalysis parses exactly one file and returns both its raw
// content and its structure. No index is built.
func (e *Engine) GetFileWithAnalysis(ctx context.Context, root, path string) (*FileAnalysis, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file path must not be blank: %w", ErrInvalidArgument)
	}

	provider, err := e.provider(root)
	if err != nil {
		return nil, normalizeErr(err)
	}
	analysis, err := e.analyzeFile(ctx, provider, path)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return analysis, nil
}

// GetSolutionStructure builds the full index and returns the aggregate
// view. A tree with zero matching files yields an empty structure, not
// an error.
func (e *Engine) GetSolutionStructure(ctx context.Context, root string) (*SolutionStructure, error) {
	provider, err := e.provider(root)
	if err != nil {
		return nil, normalizeErr(err)
	}
	idx, err := e.solutionIndex(ctx, provider)
	if err != nil {
		return nil, normalizeErr(err)
	}

	structure := &SolutionStructure{
		Root:       provider.Root(),
		BuildID:    idx.BuildID,
		Namespaces: map[string][]NamespaceFile{},
		KindCounts: idx.Stats.KindCounts,
		Stats:      idx.Stats,
		Graph:      idx.Graph,
		Projects:   idx.Projects,
		Warnings:   idx.Warnings,
	}

	for _, path := range idx.Files {
		entry := idx.ByFile[path]
		if entry == nil || entry.Document == nil {
			continue
		}
		ns := entry.Document.Namespace
		methods, properties := 0, 0
		for _, d := range entry.Declarations {
			for _, m := range d.Members {
				switch m.Kind {
				case analyzer.MemberMethod:
					methods++
				case analyzer.MemberProperty:
					properties++
				}
			}
		}
		structure.Namespaces[ns] = append(structure.Namespaces[ns], NamespaceFile{
			Path:         path,
			Name:         filepath.Base(path),
			Declarations: len(entry.Declarations),
			Methods:      methods,
			Properties:   properties,
			Lines:        entry.Document.Stats.TotalLines,
		})
	}

	return structure, nil
}

// SearchSymbols runs a ranked free-text query over declaration names,
// namespaces, and summaries.
func (e *Engine) SearchSymbols(ctx context.Context, root, query string, limit int) ([]*SymbolHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be blank: %w", ErrInvalidArgument)
	}

	provider, err := e.provider(root)
	if err != nil {
		return nil, normalizeErr(err)
	}
	idx, err := e.solutionIndex(ctx, provider)
	if err != nil {
		return nil, normalizeErr(err)
	}

	searcher, err := NewSymbolSearcher(ctx, idx)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer searcher.Close()

	hits, err := searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return hits, nil
}

// analyzeFile reads, parses, and classifies one file. Only analyzer
// extensions are accepted: the provider also enumerates project files
// for the index build, and running the parser over XML would return a
// confidently wrong document instead of an error.
func (e *Engine) analyzeFile(ctx context.Context, provider source.Provider, path string) (*FileAnalysis, error) {
	if !e.analyzable(path) {
		return nil, fmt.Errorf("file %q is not an analyzable source file: %w", path, ErrInvalidArgument)
	}

	content, err := provider.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, warnings := e.parser.Parse(content.Text)
	doc.Path = content.Path
	for i := range warnings {
		warnings[i].File = content.Path
	}

	analysis := &FileAnalysis{
		Path:     content.Path,
		Content:  content.Text,
		Encoding: content.Encoding,
		Lines:    doc.Stats.TotalLines,
		Document: doc,
		Warnings: warnings,
	}
	for i := range doc.Declarations {
		d := doc.Declarations[i]
		d.File = content.Path
		doc.Declarations[i] = d
		analysis.Declarations = append(analysis.Declarations, &index.Declaration{
			TypeDeclaration: d,
			Element: e.classifier.Classify(&d, classify.Context{
				FileName:  filepath.Base(content.Path),
				Namespace: doc.Namespace,
			}),
			Namespace: doc.Namespace,
		})
	}
	return analysis, nil
}

// solutionIndex returns a cached index for the provider root or builds
// a fresh one. A cancelled build is never cached.
func (e *Engine) solutionIndex(ctx context.Context, provider source.Provider) (*index.SolutionIndex, error) {
	root := provider.Root()
	if e.cache != nil {
		if idx, ok := e.cache.Get(root); ok {
			return idx, nil
		}
	}

	idx, err := e.builder.Build(ctx, provider)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Put(root, idx)
	}
	return idx, nil
}

// analyzable reports whether a path carries one of the configured
// analyzer extensions.
func (e *Engine) analyzable(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range e.cfg.Analyzer.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// provider constructs a disk provider for a query root. The project
// file extension rides along so structure queries can report projects.
func (e *Engine) provider(root string) (source.Provider, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root must not be blank: %w", ErrInvalidArgument)
	}
	extensions := append(append([]string{}, e.cfg.Analyzer.Extensions...), ".csproj")
	return source.NewDiskProvider(root, extensions, e.cfg.Analyzer.Exclude, e.cfg.Analyzer.MaxFileKB)
}

// directCandidates lists the filename patterns a direct search tries,
// mirroring the usual one-type-per-file naming conventions.
func directCandidates(className string) []string {
	return []string{
		className + ".cs",
		"I" + className + ".cs",
		className + "Dto.cs",
		className + "Service.cs",
		className + "Controller.cs",
	}
}

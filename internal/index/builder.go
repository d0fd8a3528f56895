package index

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JavierFrauca/mcp-code-manager/internal/analyzer"
	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
	"github.com/JavierFrauca/mcp-code-manager/internal/source"
)

// ProgressReporter receives build progress callbacks. OnFileParsed may
// be called from multiple goroutines.
type ProgressReporter interface {
	OnDiscoveryComplete(totalFiles int)
	OnFileParsed(path string)
	OnBuildComplete(stats Stats)
}

// NoOpProgressReporter ignores all progress callbacks.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryComplete(int) {}
func (NoOpProgressReporter) OnFileParsed(string)     {}
func (NoOpProgressReporter) OnBuildComplete(Stats)   {}

// Builder assembles SolutionIndex values. It is stateless and safe for
// concurrent use.
type Builder struct {
	parser     *analyzer.Parser
	classifier *classify.Classifier
	workers    int
	progress   ProgressReporter
}

// NewBuilder creates an index builder. workers bounds the parallel
// parse fan-out; zero means one worker per CPU.
func NewBuilder(classifier *classify.Classifier, workers int, progress ProgressReporter) *Builder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	return &Builder{
		parser:     analyzer.NewParser(),
		classifier: classifier,
		workers:    workers,
		progress:   progress,
	}
}

// fileResult is one worker's output for one file. Workers write only
// their own slot, so parsing shares no mutable state; the buckets are
// filled afterwards by a single merge pass.
type fileResult struct {
	path     string
	doc      *analyzer.StructuralDocument
	warnings []analyzer.ParseWarning
}

// Build walks the provider's file set, parses every source file in
// parallel, and merges the results into a fresh SolutionIndex. A file
// that cannot be read or parsed contributes zero declarations plus a
// warning; only cancellation aborts the build, and a cancelled build
// never returns a partial index.
func (b *Builder) Build(ctx context.Context, provider source.Provider) (*SolutionIndex, error) {
	files, err := provider.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	sourceFiles, projectFiles := splitProjectFiles(files)
	b.progress.OnDiscoveryComplete(len(sourceFiles))

	results := make([]*fileResult, len(sourceFiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, path := range sourceFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.parseOne(gctx, provider, path)
			b.progress.OnFileParsed(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := b.merge(provider.Root(), sourceFiles, projectFiles, results)
	b.progress.OnBuildComplete(idx.Stats)
	return idx, nil
}

// parseOne reads and parses a single file, downgrading failures to a
// warning-only result.
func (b *Builder) parseOne(ctx context.Context, provider source.Provider, path string) *fileResult {
	res := &fileResult{path: path}

	content, err := provider.ReadFile(ctx, path)
	if err != nil {
		res.warnings = append(res.warnings, analyzer.ParseWarning{
			File:    path,
			Message: "unreadable file skipped: " + err.Error(),
		})
		return res
	}

	doc, warnings := b.parser.Parse(content.Text)
	doc.Path = path
	for i := range warnings {
		warnings[i].File = path
	}
	res.doc = doc
	res.warnings = warnings
	return res
}

// merge folds per-file results into the index buckets. It runs on a
// single goroutine after all parsing completes, so partial or
// interleaved state is never observable.
func (b *Builder) merge(root string, sourceFiles, projectFiles []string, results []*fileResult) *SolutionIndex {
	idx := &SolutionIndex{
		BuildID:     uuid.NewString(),
		Root:        root,
		ByNamespace: map[string][]*Declaration{},
		ByKind:      map[classify.ElementKind][]*Declaration{},
		ByFile:      map[string]*FileEntry{},
		Files:       []string{},
	}
	idx.Stats.KindCounts = map[classify.ElementKind]int{}

	for _, res := range results {
		if res == nil {
			continue
		}
		idx.Warnings = append(idx.Warnings, res.warnings...)
		if res.doc == nil {
			continue
		}

		entry := &FileEntry{Path: res.path, Document: res.doc}
		for i := range res.doc.Declarations {
			d := res.doc.Declarations[i]
			d.File = res.path
			res.doc.Declarations[i] = d

			element := b.classifier.Classify(&d, classify.Context{
				FileName:  filepath.Base(res.path),
				Namespace: res.doc.Namespace,
			})
			wrapped := &Declaration{
				TypeDeclaration: d,
				Element:         element,
				Namespace:       res.doc.Namespace,
			}
			entry.Declarations = append(entry.Declarations, wrapped)

			ns := wrapped.Namespace
			idx.ByNamespace[ns] = append(idx.ByNamespace[ns], wrapped)
			idx.ByKind[element] = append(idx.ByKind[element], wrapped)
		}

		idx.ByFile[res.path] = entry
		idx.Files = append(idx.Files, res.path)
	}

	idx.Projects = assignProjects(projectFiles, sourceFiles)
	b.computeStats(idx, results)
	idx.Graph = buildNamespaceGraph(idx, results)
	return idx
}

// computeStats fills the aggregate counters in a single pass.
func (b *Builder) computeStats(idx *SolutionIndex, results []*fileResult) {
	stats := &idx.Stats
	stats.TotalFiles = len(idx.Files)
	stats.TotalNamespaces = len(idx.ByNamespace)

	for _, res := range results {
		if res == nil || res.doc == nil {
			continue
		}
		stats.TotalLines += res.doc.Stats.TotalLines
	}

	for _, entry := range idx.ByFile {
		for _, d := range entry.Declarations {
			stats.TotalDeclarations++
			stats.KindCounts[d.Element]++
			switch d.Kind {
			case analyzer.KindClass:
				stats.TotalClasses++
			case analyzer.KindInterface:
				stats.TotalInterfaces++
			case analyzer.KindEnum:
				stats.TotalEnums++
			case analyzer.KindRecord:
				stats.TotalRecords++
			case analyzer.KindStruct:
				stats.TotalStructs++
			}
		}
	}
}

// splitProjectFiles separates .csproj files from parseable sources.
func splitProjectFiles(files []string) (sources, projects []string) {
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".csproj") {
			projects = append(projects, f)
		} else {
			sources = append(sources, f)
		}
	}
	return sources, projects
}

// assignProjects attaches each source file to the project whose
// directory is its longest matching prefix.
func assignProjects(projectFiles, sourceFiles []string) []Project {
	if len(projectFiles) == 0 {
		return nil
	}

	projects := make([]Project, 0, len(projectFiles))
	for _, pf := range projectFiles {
		name := strings.TrimSuffix(filepath.Base(pf), filepath.Ext(pf))
		dir := filepath.ToSlash(filepath.Dir(pf))
		if dir == "." {
			dir = ""
		}
		projects = append(projects, Project{Name: name, Path: pf, Directory: dir})
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })

	for _, sf := range sourceFiles {
		best := -1
		bestLen := -1
		for i, p := range projects {
			if p.Directory != "" && !strings.HasPrefix(sf, p.Directory+"/") {
				continue
			}
			if len(p.Directory) > bestLen {
				best = i
				bestLen = len(p.Directory)
			}
		}
		if best >= 0 {
			projects[best].Files = append(projects[best].Files, sf)
		}
	}
	return projects
}

package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
	"github.com/JavierFrauca/mcp-code-manager/internal/config"
	"github.com/JavierFrauca/mcp-code-manager/internal/source"
)

// Test Plan for Builder:
// - Aggregates declarations into all three buckets
// - Deterministic (file path, span start) bucket ordering across runs
// - Duplicate type names across files are preserved, never collapsed
// - Per-file read failures degrade to warnings, never abort
// - Cancellation aborts without returning a partial index
// - Empty tree builds an empty index, not an error
// - Stats computed once over the final buckets
// - Project files claim sources by longest directory prefix

func newTestBuilder(workers int) *Builder {
	return NewBuilder(classify.New(config.Default().Classifier), workers, nil)
}

func diskProvider(t *testing.T, root string) source.Provider {
	t.Helper()
	cfg := config.Default()
	p, err := source.NewDiskProvider(root, append(cfg.Analyzer.Extensions, ".csproj"), cfg.Analyzer.Exclude, 0)
	require.NoError(t, err)
	return p
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestBuild_Buckets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Services/UserService.cs": "namespace App.Services;\n\npublic class UserService { }\n",
		"Models/UserDto.cs":       "namespace App.Models;\n\npublic class UserDto { public string Name; }\n",
		"Models/IUser.cs":         "namespace App.Models;\n\npublic interface IUser { }\n",
	})

	idx, err := newTestBuilder(4).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	assert.Equal(t, 3, idx.Stats.TotalFiles)
	assert.Equal(t, 3, idx.Stats.TotalDeclarations)
	assert.Equal(t, 2, idx.Stats.TotalClasses)
	assert.Equal(t, 1, idx.Stats.TotalInterfaces)
	assert.NotEmpty(t, idx.BuildID)

	require.Len(t, idx.ByNamespace["App.Services"], 1)
	require.Len(t, idx.ByNamespace["App.Models"], 2)
	require.Len(t, idx.ByKind[classify.Service], 1)
	require.Len(t, idx.ByKind[classify.DTO], 1)
	require.Len(t, idx.ByKind[classify.Interface], 1)
	assert.Equal(t, "UserService", idx.ByKind[classify.Service][0].Name)

	assert.Equal(t, []string{"App.Models", "App.Services"}, idx.Namespaces())
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 30; i++ {
		files[fmt.Sprintf("src/pkg%02d/Type%02d.cs", i%5, i)] =
			fmt.Sprintf("namespace App.P%d;\n\npublic class Type%02d { }\npublic class Extra%02d { }\n", i%5, i, i)
	}
	writeTree(t, root, files)

	b := newTestBuilder(8)
	first, err := b.Build(context.Background(), diskProvider(t, root))
	require.NoError(t, err)
	second, err := b.Build(context.Background(), diskProvider(t, root))
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	require.Equal(t, len(first.Declarations()), len(second.Declarations()))
	for i, d := range first.Declarations() {
		other := second.Declarations()[i]
		assert.Equal(t, d.Name, other.Name)
		assert.Equal(t, d.File, other.File)
		assert.Equal(t, d.Span, other.Span)
	}
	for ns, decls := range first.ByNamespace {
		otherDecls := second.ByNamespace[ns]
		require.Equal(t, len(decls), len(otherDecls))
		for i := range decls {
			assert.Equal(t, decls[i].Name, otherDecls[i].Name)
		}
	}
}

func TestBuild_DuplicateNamesPreserved(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/Foo.cs": "namespace A;\n\npublic class Foo { }\n",
		"b/Foo.cs": "namespace B;\n\npublic class Foo { }\n",
	})

	idx, err := newTestBuilder(2).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	var matches []*Declaration
	for _, d := range idx.Declarations() {
		if d.Name == "Foo" {
			matches = append(matches, d)
		}
	}
	require.Len(t, matches, 2)
	assert.Equal(t, "a/Foo.cs", matches[0].File)
	assert.Equal(t, "b/Foo.cs", matches[1].File)
}

// failingProvider wraps a Provider and fails reads for one path.
type failingProvider struct {
	source.Provider
	failPath string
}

func (f *failingProvider) ReadFile(ctx context.Context, relPath string) (*source.FileContent, error) {
	if relPath == f.failPath {
		return nil, fmt.Errorf("file %q: %w", relPath, fs.ErrPermission)
	}
	return f.Provider.ReadFile(ctx, relPath)
}

func TestBuild_UnreadableFileDegradesToWarning(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Good.cs": "namespace App;\n\npublic class Good { }\n",
		"Bad.cs":  "namespace App;\n\npublic class Bad { }\n",
	})

	provider := &failingProvider{Provider: diskProvider(t, root), failPath: "Bad.cs"}
	idx, err := newTestBuilder(2).Build(context.Background(), provider)

	require.NoError(t, err)
	assert.Equal(t, 1, idx.Stats.TotalDeclarations)
	require.NotEmpty(t, idx.Warnings)
	assert.Equal(t, "Bad.cs", idx.Warnings[0].File)
	assert.Contains(t, idx.Warnings[0].Message, "unreadable")
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 50; i++ {
		files[fmt.Sprintf("f%02d.cs", i)] = "namespace App;\n\npublic class C { }\n"
	}
	writeTree(t, root, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx, err := newTestBuilder(2).Build(ctx, diskProvider(t, root))

	assert.Nil(t, idx, "cancelled build must not return a partial index")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuild_EmptyTree(t *testing.T) {
	t.Parallel()

	idx, err := newTestBuilder(2).Build(context.Background(), diskProvider(t, t.TempDir()))

	require.NoError(t, err)
	assert.Equal(t, 0, idx.Stats.TotalFiles)
	assert.Equal(t, 0, idx.Stats.TotalClasses)
	assert.Empty(t, idx.ByNamespace)
	assert.Empty(t, idx.Namespaces())
}

func TestBuild_ProjectAssignment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"App/App.csproj":            "<Project />",
		"App/Program.cs":            "namespace App;\n\npublic class Program { }\n",
		"App.Tests/App.Tests.csproj": "<Project />",
		"App.Tests/ProgramTests.cs": "namespace App.Tests;\n\npublic class ProgramTests { }\n",
	})

	idx, err := newTestBuilder(2).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	require.Len(t, idx.Projects, 2)
	assert.Equal(t, "App.Tests", idx.Projects[0].Name)
	assert.Equal(t, []string{"App.Tests/ProgramTests.cs"}, idx.Projects[0].Files)
	assert.Equal(t, "App", idx.Projects[1].Name)
	assert.Equal(t, []string{"App/Program.cs"}, idx.Projects[1].Files)
}

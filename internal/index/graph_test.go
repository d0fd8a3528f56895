package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the namespace graph:
// - Edges only between namespaces declared in the tree
// - Self references and external usings are ignored
// - Mutual references surface as a cycle
// - Stable edge ordering

func TestGraph_EdgesOnlyBetweenDeclaredNamespaces(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Services/UserService.cs": "using System;\nusing App.Models;\n\nnamespace App.Services;\n\npublic class UserService { }\n",
		"Models/User.cs":          "using System.Text;\n\nnamespace App.Models;\n\npublic class User { }\n",
	})

	idx, err := newTestBuilder(2).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	require.Len(t, idx.Graph.Edges, 1)
	assert.Equal(t, NamespaceEdge{From: "App.Services", To: "App.Models"}, idx.Graph.Edges[0])
	assert.Empty(t, idx.Graph.Cycles)
}

func TestGraph_CycleDetection(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/A.cs": "using App.B;\n\nnamespace App.A;\n\npublic class A { }\n",
		"b/B.cs": "using App.A;\n\nnamespace App.B;\n\npublic class B { }\n",
	})

	idx, err := newTestBuilder(2).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	require.Len(t, idx.Graph.Cycles, 1)
	assert.Equal(t, []string{"App.A", "App.B"}, idx.Graph.Cycles[0])
}

func TestGraph_EmptyWithoutNamespaces(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Loose.cs": "public class Loose { }\n",
	})

	idx, err := newTestBuilder(1).Build(context.Background(), diskProvider(t, root))

	require.NoError(t, err)
	assert.Empty(t, idx.Graph.Edges)
	assert.Empty(t, idx.Graph.Cycles)
}

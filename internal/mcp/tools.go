package mcp

// Implementation Plan:
// 1. One AddXxxTool function per tool - composable registrations
// 2. Handler factories capture the engine
// 3. Engine errors map to structured error results, transport stays up
// 4. Responses returned as JSON text (mcp-go convention)

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

// AddFindClassTool registers the find_class tool.
func AddFindClassTool(s *server.MCPServer, engine *search.Engine) {
	tool := mcp.NewTool(
		"find_class",
		mcp.WithDescription("Locate a C# class (or any named type) in a repository. Direct mode checks conventional file names (Foo.cs, IFoo.cs, FooDto.cs, FooService.cs, FooController.cs); deep mode scans every source file. Returns every match with file, line span, members, and classification."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Absolute path of the repository root to search")),
		mcp.WithString("class_name",
			mcp.Required(),
			mcp.Description("Exact type name to find (e.g. 'UserService')")),
		mcp.WithString("mode",
			mcp.Description("Search strategy: 'direct' (default, filename conventions) or 'deep' (full scan)")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		root, err := parseStringArg(argsMap, "root", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		className, err := parseStringArg(argsMap, "class_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		modeStr, err := parseStringArg(argsMap, "mode", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mode, err := search.ParseMode(modeStr)
		if err != nil {
			return errorResult(err), nil
		}

		result, err := engine.FindClass(ctx, root, className, mode)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(result)
	})
}

// AddFindElementsTool registers the find_elements tool.
func AddFindElementsTool(s *server.MCPServer, engine *search.Engine) {
	kinds := make([]string, 0, len(classify.All()))
	for _, k := range classify.All() {
		kinds = append(kinds, string(k))
	}

	tool := mcp.NewTool(
		"find_elements",
		mcp.WithDescription("List every code element of a given kind in a repository, optionally filtered by a case-insensitive name substring."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Absolute path of the repository root to search")),
		mcp.WithString("element_type",
			mcp.Required(),
			mcp.Description("Element kind to list: "+strings.Join(kinds, ", "))),
		mcp.WithString("pattern",
			mcp.Description("Case-insensitive substring the element name must contain; empty matches all")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		root, err := parseStringArg(argsMap, "root", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		elementType, err := parseStringArg(argsMap, "element_type", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pattern, err := parseStringArg(argsMap, "pattern", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		matches, err := engine.FindElements(ctx, root, elementType, pattern)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]interface{}{
			"element_type": elementType,
			"pattern":      pattern,
			"total":        len(matches),
			"elements":     matches,
		})
	})
}

// AddGetFileWithAnalysisTool registers the get_file_with_analysis tool.
func AddGetFileWithAnalysisTool(s *server.MCPServer, engine *search.Engine) {
	tool := mcp.NewTool(
		"get_file_with_analysis",
		mcp.WithDescription("Read one source file and return its full content together with its structural analysis: namespace, usings, declarations with members, line statistics, and complexity."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Absolute path of the repository root")),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("File path relative to the root (e.g. 'Services/UserService.cs')")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		root, err := parseStringArg(argsMap, "root", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filePath, err := parseStringArg(argsMap, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		analysis, err := engine.GetFileWithAnalysis(ctx, root, filePath)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(analysis)
	})
}

// AddGetSolutionStructureTool registers the get_solution_structure
// tool.
func AddGetSolutionStructureTool(s *server.MCPServer, engine *search.Engine) {
	tool := mcp.NewTool(
		"get_solution_structure",
		mcp.WithDescription("Scan a repository and return its aggregate structure: namespaces with their files, element kind counts, projects, and the namespace dependency graph including cycles."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Absolute path of the repository root to scan")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		root, err := parseStringArg(argsMap, "root", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		structure, err := engine.GetSolutionStructure(ctx, root)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(structure)
	})
}

// AddSearchSymbolsTool registers the search_symbols tool.
func AddSearchSymbolsTool(s *server.MCPServer, engine *search.Engine) {
	tool := mcp.NewTool(
		"search_symbols",
		mcp.WithDescription("Ranked free-text search over declaration names, namespaces, and XML doc summaries. Supports query-string syntax (e.g. 'payment', 'element:service user')."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Absolute path of the repository root to search")),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text query")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-100, default: 20)")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		root, err := parseStringArg(argsMap, "root", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		query, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := parseClampedInt(argsMap, "limit", 20, 1, 100)

		hits, err := engine.SearchSymbols(ctx, root, query, limit)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]interface{}{
			"query": query,
			"total": len(hits),
			"hits":  hits,
		})
	})
}

// jsonResult marshals a response as a JSON text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// errorResult turns an engine error into a structured tool error so
// the transport stays up and the client sees a stable code.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", search.ErrorCode(err), err.Error()))
}

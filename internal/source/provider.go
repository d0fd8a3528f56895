// Package source reads and enumerates source files for analysis.
// It is the only component that touches the filesystem: everything
// above it consumes file contents through the Provider interface.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// FileContent is the decoded content of a single source file.
type FileContent struct {
	// Path relative to the provider root, slash-separated.
	Path string
	// Text is the file content decoded to UTF-8.
	Text string
	// Encoding is the detected source encoding ("utf-8" or "windows-1252").
	Encoding string
	// Size is the on-disk size in bytes.
	Size int64
}

// Provider supplies raw source text and file enumeration to the analyzer.
type Provider interface {
	// ReadFile reads and decodes a file addressed relative to the root.
	// Returns fs.ErrNotExist when the path does not resolve inside the
	// root and fs.ErrPermission when the file cannot be opened.
	ReadFile(ctx context.Context, relPath string) (*FileContent, error)

	// ListFiles enumerates files under the root whose extension is in
	// the configured set, in ascending path order. Excluded directories
	// are pruned before descent, so their contents are never opened.
	ListFiles(ctx context.Context) ([]string, error)

	// Root returns the absolute root directory of this provider.
	Root() string
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// DiskProvider implements Provider against a directory on disk.
type DiskProvider struct {
	root       string
	extensions map[string]bool
	exclude    []compiledPattern
	maxBytes   int64
}

// NewDiskProvider creates a provider rooted at rootDir. Extensions must
// carry a leading dot. Exclude patterns use slash-separated glob syntax.
func NewDiskProvider(rootDir string, extensions, excludePatterns []string, maxFileKB int) (*DiskProvider, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", rootDir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root %q: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", rootDir)
	}

	p := &DiskProvider{
		root:       abs,
		extensions: make(map[string]bool, len(extensions)),
	}
	for _, ext := range extensions {
		p.extensions[strings.ToLower(ext)] = true
	}
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		p.exclude = append(p.exclude, compiledPattern{pattern: pattern, glob: g})
	}
	if maxFileKB > 0 {
		p.maxBytes = int64(maxFileKB) * 1024
	}
	return p, nil
}

// Root returns the absolute root directory.
func (p *DiskProvider) Root() string {
	return p.root
}

// ReadFile reads and decodes a single file relative to the root.
func (p *DiskProvider) ReadFile(ctx context.Context, relPath string) (*FileContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, rel, err := p.resolve(relPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %q: %w", relPath, fs.ErrNotExist)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("file %q: %w", relPath, fs.ErrPermission)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory: %w", relPath, fs.ErrNotExist)
	}
	if p.maxBytes > 0 && info.Size() > p.maxBytes {
		return nil, fmt.Errorf("file %q exceeds size limit (%d bytes)", relPath, info.Size())
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("file %q: %w", relPath, fs.ErrPermission)
		}
		return nil, err
	}

	text, encoding := Decode(raw)
	return &FileContent{
		Path:     rel,
		Text:     text,
		Encoding: encoding,
		Size:     info.Size(),
	}, nil
}

// ListFiles walks the root and returns matching files in ascending
// path order. Path order is what makes index output reproducible, so
// the sort here is load-bearing, not cosmetic.
func (p *DiskProvider) ListFiles(ctx context.Context) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees reduce coverage but never abort the walk.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(p.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if p.isExcluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if p.isExcluded(rel) {
			return nil
		}
		if !p.extensions[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isExcluded checks a slash-separated relative path against the
// exclude patterns, matching both the path itself and the path as a
// directory prefix (so "obj" matches pattern "obj/**").
func (p *DiskProvider) isExcluded(relPath string) bool {
	for _, cp := range p.exclude {
		if cp.glob.Match(relPath) {
			return true
		}
	}
	withSuffix := relPath + "/**"
	for _, cp := range p.exclude {
		if cp.glob.Match(withSuffix) {
			return true
		}
	}
	return false
}

// resolve maps a caller-supplied relative path onto the root and
// rejects anything that escapes it.
func (p *DiskProvider) resolve(relPath string) (full string, rel string, err error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) {
		// Absolute paths are accepted only when already inside the root.
		r, err := filepath.Rel(p.root, cleaned)
		if err != nil || strings.HasPrefix(r, "..") {
			return "", "", fmt.Errorf("path %q is outside the root: %w", relPath, fs.ErrNotExist)
		}
		cleaned = r
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("path %q is outside the root: %w", relPath, fs.ErrNotExist)
	}
	return filepath.Join(p.root, cleaned), filepath.ToSlash(cleaned), nil
}

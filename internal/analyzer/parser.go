package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// Parser turns raw C# text into a StructuralDocument. It is stateless
// and safe for concurrent use.
type Parser struct{}

// NewParser creates a new structural parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	namespaceRe = regexp.MustCompile(`^\s*namespace\s+([A-Za-z_][\w.]*)`)
	usingRe     = regexp.MustCompile(`^\s*using\s+(?:static\s+)?([A-Za-z_][\w.]*)\s*;`)

	// Unanchored: a header can sit anywhere on a line (single-line
	// files, a declaration following a file-scoped namespace on the
	// same line, two declarations on one line).
	typeHeaderRe = regexp.MustCompile(
		`\b((?:(?:public|internal|private|protected|static|abstract|partial|sealed)\s+)*)` +
			`(class|interface|enum|struct|record(?:\s+(?:class|struct))?)\s+([A-Za-z_]\w*)`)

	memberModifiers = `public|private|protected|internal|static|virtual|override|abstract|async|sealed|readonly|const|partial|new|extern|unsafe`

	methodRe = regexp.MustCompile(
		`^\s*((?:(?:` + memberModifiers + `)\s+)+)([A-Za-z_][\w<>\[\],.? ]*?)\s+([A-Za-z_]\w*)\s*\(`)
	interfaceMethodRe = regexp.MustCompile(
		`^\s*([A-Za-z_][\w<>\[\],.? ]*?)\s+([A-Za-z_]\w*)\s*\(`)
	propertyRe = regexp.MustCompile(
		`^\s*((?:(?:` + memberModifiers + `)\s+)+)([A-Za-z_][\w<>\[\],.?]*)\s+([A-Za-z_]\w*)\s*(\{|=>)`)
	fieldRe = regexp.MustCompile(
		`^\s*((?:(?:` + memberModifiers + `)\s+)+)([A-Za-z_][\w<>\[\],.?]*)\s+([A-Za-z_]\w*)\s*(?:=[^;]*)?;`)

	// "record" is a contextual keyword; unanchored matching can catch
	// it in expression position ("foreach (var record in ...)"), where
	// the captured "name" is the next keyword rather than a type name.
	reservedNames = map[string]bool{
		"in": true, "out": true, "is": true, "as": true, "var": true,
		"new": true, "this": true, "null": true, "true": true, "false": true,
		"when": true, "with": true, "from": true, "where": true, "select": true,
	}

	docCommentRe = regexp.MustCompile(`^\s*///`)
	xmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	branchRe     = regexp.MustCompile(`\b(?:if|for|foreach|while|switch)\s*\(`)
)

// Parse converts one file's text into a StructuralDocument plus any
// warnings recovered along the way. Malformed input never fails:
// the result degrades to a partial document. Empty input yields an
// empty document.
func (p *Parser) Parse(text string) (*StructuralDocument, []ParseWarning) {
	doc := &StructuralDocument{Declarations: []TypeDeclaration{}}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	masked := maskLiterals(text)
	lines := strings.Split(text, "\n")
	maskedLines := strings.Split(masked, "\n")

	var warnings []ParseWarning

	doc.Usings = extractUsings(maskedLines)
	doc.Stats = computeStats(text, masked, lines)

	for i, mline := range maskedLines {
		if doc.Namespace == "" {
			if m := namespaceRe.FindStringSubmatch(mline); m != nil {
				// First occurrence wins; block and file-scoped forms
				// both land here.
				doc.Namespace = m[1]
			}
		}

		for _, loc := range typeHeaderRe.FindAllStringSubmatchIndex(mline, -1) {
			if reservedNames[mline[loc[6]:loc[7]]] {
				continue
			}
			kind := normalizeKind(mline[loc[4]:loc[5]])
			decl := TypeDeclaration{
				Name:      mline[loc[6]:loc[7]],
				Kind:      kind,
				Modifiers: splitModifiers(mline[loc[2]:loc[3]]),
				BaseTypes: extractBaseTypes(mline[loc[0]:]),
				Summary:   extractSummary(lines, i),
			}

			endIdx, depths, balanced := scanExtent(maskedLines, i, loc[0])
			if !balanced {
				warnings = append(warnings, ParseWarning{
					Line:    i + 1,
					Message: "unbalanced braces in declaration '" + decl.Name + "', closed at end of file",
				})
			}
			decl.Span = Span{StartLine: i + 1, EndLine: endIdx + 1}

			if kind != KindEnum {
				decl.Members = scanMembers(lines, maskedLines, i, endIdx, depths, kind)
			}

			doc.Declarations = append(doc.Declarations, decl)
		}
	}

	return doc, warnings
}

// normalizeKind folds "record class" and "record struct" into record.
func normalizeKind(token string) TypeKind {
	if strings.HasPrefix(token, "record") {
		return KindRecord
	}
	return TypeKind(token)
}

// splitModifiers turns the matched modifier prefix into a slice.
func splitModifiers(prefix string) []string {
	fields := strings.Fields(prefix)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// extractUsings collects referenced namespaces, sorted and deduplicated.
// Best effort only: the set feeds classification context and the
// namespace graph, never resolution.
func extractUsings(maskedLines []string) []string {
	seen := map[string]bool{}
	for _, line := range maskedLines {
		if m := usingRe.FindStringSubmatch(line); m != nil {
			seen[m[1]] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	usings := make([]string, 0, len(seen))
	for u := range seen {
		usings = append(usings, u)
	}
	sort.Strings(usings)
	return usings
}

// extractBaseTypes pulls the base-type list following ':' on a header
// segment, dropping generic constraints. The segment starts at the
// header match and is truncated at the body open (or statement end)
// first, so a later declaration on the same line cannot contribute.
func extractBaseTypes(headerSeg string) []string {
	if stop := strings.IndexAny(headerSeg, "{;"); stop >= 0 {
		headerSeg = headerSeg[:stop]
	}
	colon := strings.Index(headerSeg, ":")
	if colon < 0 {
		return nil
	}
	rest := headerSeg[colon+1:]
	if where := strings.Index(rest, " where "); where >= 0 {
		rest = rest[:where]
	}
	var bases []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			bases = append(bases, part)
		}
	}
	return bases
}

// scanExtent finds the end line of a declaration whose header starts
// at column startCol of line startIdx, by brace-balance tracking on
// the masked text. It returns the end index, the brace depth at the
// start of each line within the extent, and whether the braces
// balanced. A terse form ending in ';' before any brace closes on
// that line. When balance cannot be resolved the declaration closes
// at end of file. Text before startCol on the header line belongs to
// whatever came earlier and is ignored.
func scanExtent(maskedLines []string, startIdx, startCol int) (endIdx int, depths []int, balanced bool) {
	depth := 0
	opened := false

	for i := startIdx; i < len(maskedLines); i++ {
		depths = append(depths, depth)
		line := maskedLines[i]
		if i == startIdx && startCol <= len(line) {
			line = line[startCol:]
		}
		for _, c := range line {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
				if opened && depth == 0 {
					return i, depths, true
				}
			case ';':
				if !opened && depth == 0 {
					// Positional record or similar statement-bounded form.
					return i, depths, true
				}
			}
		}
	}

	return len(maskedLines) - 1, depths, false
}

// scanMembers walks the lines inside a declaration extent and records
// method, property, and field headers sitting directly inside the type
// body (relative brace depth 1). Bodies are never recorded.
func scanMembers(lines, maskedLines []string, startIdx, endIdx int, depths []int, kind TypeKind) []Member {
	var members []Member

	for i := startIdx + 1; i <= endIdx && i < len(maskedLines); i++ {
		rel := i - startIdx
		if rel >= len(depths) || depths[rel] != 1 {
			continue
		}
		mline := maskedLines[i]
		if hasTypeHeader(mline) {
			// Nested type headers are declarations, not members.
			continue
		}

		signature := strings.TrimSpace(lines[i])

		if m := methodRe.FindStringSubmatch(mline); m != nil {
			members = append(members, Member{
				Name:       m[3],
				Kind:       MemberMethod,
				Modifiers:  splitModifiers(m[1]),
				Signature:  signature,
				Line:       i + 1,
				ReturnType: strings.TrimSpace(m[2]),
				IsStatic:   containsWord(m[1], "static"),
			})
			continue
		}

		if kind == KindInterface {
			if m := interfaceMethodRe.FindStringSubmatch(mline); m != nil {
				members = append(members, Member{
					Name:       m[2],
					Kind:       MemberMethod,
					Signature:  signature,
					Line:       i + 1,
					ReturnType: strings.TrimSpace(m[1]),
				})
				continue
			}
		}

		if m := propertyRe.FindStringSubmatch(mline); m != nil {
			member := Member{
				Name:      m[3],
				Kind:      MemberProperty,
				Modifiers: splitModifiers(m[1]),
				Signature: signature,
				Line:      i + 1,
				IsStatic:  containsWord(m[1], "static"),
			}
			if m[4] == "=>" {
				member.HasGetter = true
			} else {
				body := mline[strings.Index(mline, "{"):]
				member.HasGetter = strings.Contains(body, "get")
				member.HasSetter = strings.Contains(body, "set") || strings.Contains(body, "init")
			}
			members = append(members, member)
			continue
		}

		if m := fieldRe.FindStringSubmatch(mline); m != nil {
			members = append(members, Member{
				Name:       m[3],
				Kind:       MemberField,
				Modifiers:  splitModifiers(m[1]),
				Signature:  signature,
				Line:       i + 1,
				IsReadonly: containsWord(m[1], "readonly"),
				IsStatic:   containsWord(m[1], "static"),
			})
		}
	}

	return members
}

// hasTypeHeader reports whether a masked line contains a type header,
// applying the same reserved-name filter as the main scan.
func hasTypeHeader(mline string) bool {
	for _, loc := range typeHeaderRe.FindAllStringSubmatchIndex(mline, -1) {
		if !reservedNames[mline[loc[6]:loc[7]]] {
			return true
		}
	}
	return false
}

// containsWord reports whether the whitespace-separated prefix holds
// the exact word.
func containsWord(prefix, word string) bool {
	for _, f := range strings.Fields(prefix) {
		if f == word {
			return true
		}
	}
	return false
}

// extractSummary collects the contiguous /// documentation block
// immediately above a declaration header and strips the XML markup.
func extractSummary(lines []string, headerIdx int) string {
	var parts []string
	for i := headerIdx - 1; i >= 0; i-- {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if !docCommentRe.MatchString(line) {
			// Attribute lines between docs and header are skipped,
			// anything else breaks contiguity.
			if strings.HasPrefix(trimmed, "[") {
				continue
			}
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, "///"))
		text = strings.TrimSpace(xmlTagRe.ReplaceAllString(text, ""))
		if text != "" {
			parts = append(parts, text)
		}
	}
	// Collected bottom-up; restore reading order.
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, " ")
}

// computeStats produces per-file line statistics and a coarse
// complexity estimate from branch-keyword density.
func computeStats(text, masked string, lines []string) FileStats {
	stats := FileStats{
		TotalLines: len(lines),
		HasXMLDocs: strings.Contains(strings.ToLower(text), "<summary>"),
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			stats.BlankLines++
		case strings.HasPrefix(trimmed, "//"):
			stats.CommentLines++
		default:
			stats.CodeLines++
		}
	}

	branches := len(branchRe.FindAllString(masked, -1))
	switch {
	case branches < 5:
		stats.Complexity = "Low"
	case branches < 15:
		stats.Complexity = "Medium"
	default:
		stats.Complexity = "High"
	}

	return stats
}

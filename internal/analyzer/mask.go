package analyzer

// maskLiterals blanks out comment and string content so that keyword
// scanning never matches inside literals (a quoted "class" must not be
// seen as a declaration). Every masked byte becomes a space; newlines
// pass through, so line numbers and column positions stay aligned with
// the original text.
func maskLiterals(src string) string {
	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
		stateVerbatim
		stateChar
	)

	out := []byte(src)
	state := stateCode

	for i := 0; i < len(out); i++ {
		c := out[i]

		switch state {
		case stateCode:
			switch {
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				out[i] = ' '
				state = stateLineComment
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				out[i] = ' '
				state = stateBlockComment
			case c == '@' && i+1 < len(out) && out[i+1] == '"':
				// @"..." and $@"..." both land here via the '@'.
				out[i] = ' '
				i++
				out[i] = ' '
				state = stateVerbatim
			case c == '$' && i+1 < len(out) && out[i+1] == '@' && i+2 < len(out) && out[i+2] == '"':
				out[i] = ' '
			case c == '"':
				out[i] = ' '
				state = stateString
			case c == '\'':
				out[i] = ' '
				state = stateChar
			}

		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}

		case stateBlockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				i++
				out[i] = ' '
				state = stateCode
			} else if c != '\n' {
				out[i] = ' '
			}

		case stateString:
			switch {
			case c == '\\' && i+1 < len(out):
				out[i] = ' '
				i++
				if out[i] != '\n' {
					out[i] = ' '
				}
			case c == '"':
				out[i] = ' '
				state = stateCode
			case c != '\n':
				out[i] = ' '
			}

		case stateVerbatim:
			switch {
			case c == '"' && i+1 < len(out) && out[i+1] == '"':
				// Doubled quote is the verbatim escape.
				out[i] = ' '
				i++
				out[i] = ' '
			case c == '"':
				out[i] = ' '
				state = stateCode
			case c != '\n':
				out[i] = ' '
			}

		case stateChar:
			switch {
			case c == '\\' && i+1 < len(out):
				out[i] = ' '
				i++
				if out[i] != '\n' {
					out[i] = ' '
				}
			case c == '\'':
				out[i] = ' '
				state = stateCode
			case c != '\n':
				out[i] = ' '
			}
		}
	}

	return string(out)
}

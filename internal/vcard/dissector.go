package vcard

import "strings"

const (
	phaseGroupOrName = iota
	phaseParams
	phaseParamsInDQuote
)

// dissect splits one logical vCard line into groups, property name, raw
// parameter tokens, and the raw value tail, per §4.2's three-state machine
// (GROUP_OR_NAME / PARAMS / PARAMS_IN_DQUOTE). The parameter tokens are
// left unparsed here; ParameterHandler (params.go) turns each into a Param
// and folds it into the state the rest of the pipeline sees.
//
// dissect returns ErrInvalidComment for a line beginning with '#' (recovered
// by the driver) and ErrInvalidLine if the line ends without yielding a
// colon outside any double-quoted run.
func dissect(line string, lineNo int, st *state, diag Logger) (rawProperty, error) {
	if len(line) > 0 && line[0] == '#' {
		return rawProperty{}, ErrInvalidComment
	}

	var (
		groups []string
		name   string
		toks   []string
		run    strings.Builder
		phase  = phaseGroupOrName
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch phase {
		case phaseGroupOrName:
			switch c {
			case ':':
				return rawProperty{
					groups: groups, name: run.String(),
					rawValue: line[i+1:], lineNumber: lineNo,
				}, nil
			case '.':
				if run.Len() > 0 {
					groups = append(groups, run.String())
				} else if !st.emptyGroupWarned {
					st.emptyGroupWarned = true
					diag.Warnf("line %d: dropping empty group token", lineNo)
				}
				run.Reset()
			case ';':
				name = run.String()
				run.Reset()
				phase = phaseParams
			default:
				run.WriteByte(c)
			}
		case phaseParams:
			switch c {
			case '"':
				if !st.dquoteWarned {
					st.dquoteWarned = true
					diag.Warnf("line %d: double-quoted parameter value is non-conforming in vCard 2.1", lineNo)
				}
				run.WriteByte(c)
				phase = phaseParamsInDQuote
			case ';':
				toks = append(toks, run.String())
				run.Reset()
			case ':':
				toks = append(toks, run.String())
				return rawProperty{
					groups: groups, name: name, paramToks: toks,
					rawValue: line[i+1:], lineNumber: lineNo,
				}, nil
			default:
				run.WriteByte(c)
			}
		case phaseParamsInDQuote:
			run.WriteByte(c)
			if c == '"' {
				phase = phaseParams
			}
		}
	}

	return rawProperty{}, &ParseError{Line: lineNo, Err: ErrInvalidLine}
}

package render

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/growthsystem/erpchat/core/domain"
)

var (
	// Loop blocks are carved out of the template before any placeholder
	// substitution so their bodies are rendered per row, not globally.
	loopPattern = regexp.MustCompile(`(?s)\{%\s*for\s+(\w+)\s+in\s+(\w+)\s*%\}(.*?)\{%\s*endfor\s*%\}`)

	// One grammar for all placeholder forms, alternation ordered by
	// precedence: indexed-dotted, dotted, scalar; double braces before
	// single. A single left-to-right sweep with this pattern guarantees
	// that an indexed key is never mistaken for a dotted placeholder with
	// a literal "[N]" in its name, and that substituted values are never
	// rescanned within one render.
	placeholderPattern = regexp.MustCompile(
		`\{\{\s*(\w+)\[(\d+)\]\.(\w+)\s*\}\}` + // {{key[N].field}}
			`|\{\{\s*(\w+)\.(\w+)\s*\}\}` + // {{key.field}}
			`|\{\{\s*(\w+)\s*\}\}` + // {{key}}
			`|\{\s*(\w+)\.(\w+)\s*\}` + // {key.field}
			`|\{\s*(\w+)\s*\}`) // {key}

	// Inside a loop body only {{var.field}} and {{loop.index}} resolve.
	loopVarPattern = regexp.MustCompile(`\{\{\s*(\w+)\.(\w+)\s*\}\}`)
)

// Options configure rendering behavior.
type Options struct {
	// FuzzyLoopKeys enables the substring fallback when a loop's
	// collection key has no exact match in the binding. LLM-produced
	// templates and query keys are not guaranteed to match verbatim, so
	// producers rely on this slack; it can bind the wrong collection when
	// two keys are substrings of each other, which is why it is
	// switchable.
	FuzzyLoopKeys bool
}

// Renderer deterministically substitutes query results into a response
// template. It never evaluates expressions, never touches the row store and
// never raises: malformed syntax is passed through as literal text.
type Renderer struct {
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render produces the final text for a template against a binding. Each call
// is a pure function of its inputs; rendering the same pair twice yields
// byte-identical output.
func (r *Renderer) Render(template string, binding domain.Binding) string {
	var out strings.Builder
	last := 0

	for _, loc := range loopPattern.FindAllStringSubmatchIndex(template, -1) {
		out.WriteString(r.renderSegment(template[last:loc[0]], binding))

		varName := template[loc[2]:loc[3]]
		collectionKey := template[loc[4]:loc[5]]
		body := template[loc[6]:loc[7]]
		out.WriteString(r.renderLoop(varName, collectionKey, body, binding))

		last = loc[1]
	}

	out.WriteString(r.renderSegment(template[last:], binding))
	return out.String()
}

// renderSegment substitutes scalar, dotted and indexed placeholders in text
// outside loop bodies. Unresolvable placeholders are kept verbatim so
// missing data stays visible in the final text instead of being silently
// dropped.
func (r *Renderer) renderSegment(segment string, binding domain.Binding) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(segment, -1)
	if matches == nil {
		return segment
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(segment[last:m[0]])
		out.WriteString(r.resolvePlaceholder(segment, m, binding))
		last = m[1]
	}
	out.WriteString(segment[last:])
	return out.String()
}

// resolvePlaceholder resolves one placeholder match, returning the original
// text when the binding cannot satisfy it.
func (r *Renderer) resolvePlaceholder(segment string, m []int, binding domain.Binding) string {
	literal := segment[m[0]:m[1]]
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return segment[m[2*i]:m[2*i+1]], true
	}

	if key, ok := group(1); ok {
		// {{key[N].field}}
		indexText, _ := group(2)
		field, _ := group(3)
		index, err := strconv.Atoi(indexText)
		if err != nil {
			return literal
		}
		if value, ok := lookupField(binding, key, index, field); ok {
			return domain.Stringify(value)
		}
		return literal
	}

	if key, ok := group(4); ok {
		field, _ := group(5)
		return r.resolveDotted(binding, key, field, literal)
	}
	if key, ok := group(6); ok {
		return r.resolveScalar(binding, key, literal)
	}
	if key, ok := group(7); ok {
		field, _ := group(8)
		return r.resolveDotted(binding, key, field, literal)
	}
	if key, ok := group(9); ok {
		return r.resolveScalar(binding, key, literal)
	}
	return literal
}

// resolveScalar substitutes {key}: the first row when the key is bound to a
// non-empty row sequence, or the stringified value itself otherwise.
func (r *Renderer) resolveScalar(binding domain.Binding, key, literal string) string {
	value, ok := binding[key]
	if !ok {
		return literal
	}
	if rows, isRows := asRows(value); isRows {
		if len(rows) == 0 {
			return literal
		}
		return rows[0].String()
	}
	return domain.Stringify(value)
}

// resolveDotted substitutes {key.field} from the first row bound to key.
func (r *Renderer) resolveDotted(binding domain.Binding, key, field, literal string) string {
	if value, ok := lookupField(binding, key, 0, field); ok {
		return domain.Stringify(value)
	}
	return literal
}

// renderLoop renders a {% for %} block once per bound row. An unresolved
// collection yields empty output: loop syntax must never leak into
// user-facing text.
func (r *Renderer) renderLoop(varName, collectionKey, body string, binding domain.Binding) string {
	rows, ok := r.resolveCollection(binding, collectionKey)
	if !ok {
		return ""
	}

	var out strings.Builder
	for i, row := range rows {
		out.WriteString(renderLoopBody(body, varName, row, i+1))
	}
	return out.String()
}

// renderLoopBody substitutes {{var.field}} against the current row and
// {{loop.index}} with the 1-based row position. Other references are left
// untouched.
func renderLoopBody(body, varName string, row domain.Row, index int) string {
	matches := loopVarPattern.FindAllStringSubmatchIndex(body, -1)
	if matches == nil {
		return body
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(body[last:m[0]])

		name := body[m[2]:m[3]]
		field := body[m[4]:m[5]]
		switch {
		case name == varName:
			if value, ok := row.Get(field); ok {
				out.WriteString(domain.Stringify(value))
			} else {
				out.WriteString(body[m[0]:m[1]])
			}
		case name == "loop" && field == "index":
			out.WriteString(strconv.Itoa(index))
		default:
			out.WriteString(body[m[0]:m[1]])
		}

		last = m[1]
	}
	out.WriteString(body[last:])
	return out.String()
}

// resolveCollection finds the row sequence for a loop's collection key:
// exact binding match first, then, when enabled, a fuzzy fallback accepting
// any bound key that is a substring of the collection key or vice versa.
// Fuzzy candidates are scanned in sorted order so the fallback is
// deterministic.
func (r *Renderer) resolveCollection(binding domain.Binding, key string) (domain.Rows, bool) {
	if value, ok := binding[key]; ok {
		if rows, isRows := asRows(value); isRows {
			return rows, true
		}
		return nil, false
	}

	if !r.opts.FuzzyLoopKeys {
		return nil, false
	}

	candidates := make([]string, 0, len(binding))
	for bound := range binding {
		candidates = append(candidates, bound)
	}
	sort.Strings(candidates)

	for _, bound := range candidates {
		if strings.Contains(bound, key) || strings.Contains(key, bound) {
			if rows, isRows := asRows(binding[bound]); isRows {
				return rows, true
			}
		}
	}
	return nil, false
}

// lookupField fetches row[index][field] for a bound key, reporting whether
// every step of the path resolved.
func lookupField(binding domain.Binding, key string, index int, field string) (any, bool) {
	value, ok := binding[key]
	if !ok {
		return nil, false
	}
	rows, isRows := asRows(value)
	if !isRows || index < 0 || index >= len(rows) {
		return nil, false
	}
	return rows[index].Get(field)
}

// asRows reports whether a binding value is row-shaped.
func asRows(value any) (domain.Rows, bool) {
	switch v := value.(type) {
	case domain.Rows:
		return v, true
	case []domain.Row:
		return domain.Rows(v), true
	default:
		return nil, false
	}
}

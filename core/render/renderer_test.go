package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/render"
)

func row(pairs ...any) domain.Row {
	r := domain.Row{Values: map[string]any{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		col := pairs[i].(string)
		r.Columns = append(r.Columns, col)
		r.Values[col] = pairs[i+1]
	}
	return r
}

func newRenderer() *render.Renderer {
	return render.New(render.Options{FuzzyLoopKeys: true})
}

func TestRender_Placeholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		binding  domain.Binding
		expected string
	}{
		{
			name:     "dotted placeholders from first row",
			template: "{{customer.name}} owes {{customer.balance}}",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme", "balance", "500")},
			},
			expected: "Acme owes 500",
		},
		{
			name:     "single brace dotted placeholder",
			template: "{customer.name} owes {customer.balance}",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme", "balance", "500")},
			},
			expected: "Acme owes 500",
		},
		{
			name:     "missing key left unresolved",
			template: "{{missing.name}}",
			binding:  domain.Binding{},
			expected: "{{missing.name}}",
		},
		{
			name:     "missing field left unresolved",
			template: "{{customer.phone}}",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme")},
			},
			expected: "{{customer.phone}}",
		},
		{
			name:     "scalar placeholder with scalar value",
			template: "Total: {total}",
			binding:  domain.Binding{"total": 42},
			expected: "Total: 42",
		},
		{
			name:     "scalar double brace with scalar value",
			template: "Total: {{total}}",
			binding:  domain.Binding{"total": "42"},
			expected: "Total: 42",
		},
		{
			name:     "scalar placeholder bound to rows uses first row",
			template: "{{customer}}",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme", "balance", 500)},
			},
			expected: "name: Acme, balance: 500",
		},
		{
			name:     "scalar placeholder bound to empty rows stays unresolved",
			template: "{{customer}}",
			binding:  domain.Binding{"customer": domain.Rows{}},
			expected: "{{customer}}",
		},
		{
			name:     "indexed placeholder",
			template: "First: {{items[0].name}}, second: {{items[1].name}}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen"), row("name", "Pad")},
			},
			expected: "First: Pen, second: Pad",
		},
		{
			name:     "indexed placeholder out of range stays unresolved",
			template: "{{items[5].name}}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen")},
			},
			expected: "{{items[5].name}}",
		},
		{
			name:     "indexed key is not mistaken for dotted placeholder",
			template: "{{items[0].name}} and {{items.name}}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen")},
			},
			expected: "Pen and Pen",
		},
		{
			name:     "numeric stringification is stable",
			template: "{{stats.ratio}} of {{stats.count}}",
			binding: domain.Binding{
				"stats": domain.Rows{row("ratio", 0.5, "count", int64(1200))},
			},
			expected: "0.5 of 1200",
		},
		{
			name:     "spaced double brace placeholder",
			template: "{{ customer.name }}",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme")},
			},
			expected: "Acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newRenderer().Render(tt.template, tt.binding))
		})
	}
}

func TestRender_Loops(t *testing.T) {
	tests := []struct {
		name     string
		template string
		binding  domain.Binding
		expected string
	}{
		{
			name:     "loop concatenates per row with no implicit separators",
			template: "Top items: {% for item in top_items %}- {{item.name}}: {{item.qty}}{% endfor %}",
			binding: domain.Binding{
				"top_items": domain.Rows{
					row("name", "Pen", "qty", 10),
					row("name", "Pad", "qty", 5),
				},
			},
			expected: "Top items: - Pen: 10- Pad: 5",
		},
		{
			name:     "loop over absent key removes the whole construct",
			template: "Before {% for item in missing %}- {{item.name}}{% endfor %}after",
			binding:  domain.Binding{},
			expected: "Before after",
		},
		{
			name:     "loop index is one based",
			template: "{% for item in items %}{{loop.index}}. {{item.name}}\n{% endfor %}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen"), row("name", "Pad")},
			},
			expected: "1. Pen\n2. Pad\n",
		},
		{
			name:     "multi-line loop body",
			template: "{% for r in rows %}line: {{r.v}}\nnext\n{% endfor %}",
			binding: domain.Binding{
				"rows": domain.Rows{row("v", "a"), row("v", "b")},
			},
			expected: "line: a\nnext\nline: b\nnext\n",
		},
		{
			name:     "fuzzy fallback binds substring key",
			template: "{% for item in items %}{{item.name}}{% endfor %}",
			binding: domain.Binding{
				"top_items": domain.Rows{row("name", "Pen")},
			},
			expected: "Pen",
		},
		{
			name:     "fuzzy fallback other direction",
			template: "{% for item in top_selling_items %}{{item.name}}{% endfor %}",
			binding: domain.Binding{
				"top_selling": domain.Rows{row("name", "Pad")},
			},
			expected: "Pad",
		},
		{
			name:     "unknown field inside loop body stays literal",
			template: "{% for item in items %}{{item.name}}/{{item.nope}}{% endfor %}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen")},
			},
			expected: "Pen/{{item.nope}}",
		},
		{
			name:     "foreign key reference inside loop body stays literal",
			template: "{% for item in items %}{{item.name}}{{other.name}}{% endfor %}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen")},
				"other": domain.Rows{row("name", "X")},
			},
			expected: "Pen{{other.name}}",
		},
		{
			name:     "loop without endfor stays literal",
			template: "{% for item in items %}{{item.name}}",
			binding: domain.Binding{
				"items": domain.Rows{row("name", "Pen")},
			},
			expected: "{% for item in items %}{{item.name}}",
		},
		{
			name:     "text outside loops still substituted when loop is removed",
			template: "{{customer.name}}: {% for o in orders %}#{{o.id}}{% endfor %} done",
			binding: domain.Binding{
				"customer": domain.Rows{row("name", "Acme")},
			},
			expected: "Acme:  done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newRenderer().Render(tt.template, tt.binding))
		})
	}
}

func TestRender_FuzzyFallbackDisabled(t *testing.T) {
	r := render.New(render.Options{FuzzyLoopKeys: false})
	binding := domain.Binding{
		"top_items": domain.Rows{row("name", "Pen")},
	}

	out := r.Render("{% for item in items %}{{item.name}}{% endfor %}", binding)

	assert.Equal(t, "", out)
}

func TestRender_FuzzyFallbackIsDeterministic(t *testing.T) {
	// Two bound keys both fuzzy-match the collection; the sorted scan must
	// pick the same one on every render.
	binding := domain.Binding{
		"items_a": domain.Rows{row("name", "A")},
		"items_b": domain.Rows{row("name", "B")},
	}
	template := "{% for item in items %}{{item.name}}{% endfor %}"

	first := newRenderer().Render(template, binding)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, newRenderer().Render(template, binding))
	}
	assert.Equal(t, "A", first)
}

func TestRender_Deterministic(t *testing.T) {
	binding := domain.Binding{
		"customer": domain.Rows{row("name", "Acme", "balance", 500)},
		"items":    domain.Rows{row("name", "Pen", "qty", 10), row("name", "Pad", "qty", 5)},
	}
	template := "{{customer}} | {% for i in items %}{{loop.index}}:{{i.name}} {% endfor %}| {{items[1].qty}}"

	first := newRenderer().Render(template, binding)
	second := newRenderer().Render(template, binding)

	assert.Equal(t, first, second)
	assert.Equal(t, "name: Acme, balance: 500 | 1:Pen 2:Pad | 5", first)
}

func TestRender_DataBracesNotReinterpreted(t *testing.T) {
	// Values containing brace syntax must come through verbatim and stay
	// inert when the rendered output is passed through the renderer again.
	binding := domain.Binding{
		"note": domain.Rows{row("text", "use {placeholder} and {{curly}} literally")},
	}

	rendered := newRenderer().Render("{{note.text}}", binding)
	assert.Equal(t, "use {placeholder} and {{curly}} literally", rendered)

	again := newRenderer().Render(rendered, binding)
	assert.Equal(t, rendered, again)
}

func TestRender_SubstitutedValueNotRescannedWithinOneRender(t *testing.T) {
	// A value that happens to contain another placeholder's syntax must not
	// be expanded during the same render pass.
	binding := domain.Binding{
		"a": domain.Rows{row("v", "{{b.v}}")},
		"b": domain.Rows{row("v", "secret")},
	}

	out := newRenderer().Render("{{a.v}}", binding)

	assert.Equal(t, "{{b.v}}", out)
}

func TestRender_PartialBindingRendersWhatItCan(t *testing.T) {
	binding := domain.Binding{
		"customer": domain.Rows{row("name", "Acme")},
	}
	template := "{{customer.name}} / {{revenue.total}} / {% for o in orders %}x{% endfor %}"

	out := newRenderer().Render(template, binding)

	assert.Equal(t, "Acme / {{revenue.total}} / ", out)
}

package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthsystem/erpchat/core/completion"
	apperrors "github.com/growthsystem/erpchat/core/shared/errors"
)

func TestParse_DirectAnswer(t *testing.T) {
	c, err := completion.Parse(`{"needs_data": false, "response": "Hello there"}`)

	require.NoError(t, err)
	assert.True(t, c.DirectAnswer())
	assert.Equal(t, "Hello there", c.Response)
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"needs_data\": true, \"queries\": [{\"key\": \"top\", \"query\": \"SELECT 1\"}], \"template\": \"{{top.v}}\"}\n```\nThanks!"

	c, err := completion.Parse(raw)

	require.NoError(t, err)
	assert.True(t, c.NeedsData)
	assert.Equal(t, "{{top.v}}", c.Template)
	require.Len(t, c.Queries, 1)
	assert.Equal(t, "top", c.Queries[0].Key)
	assert.Equal(t, "SELECT 1", c.Queries[0].SQL)
}

func TestParse_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"needs_data\": false, \"response\": \"ok\"}\n```"

	c, err := completion.Parse(raw)

	require.NoError(t, err)
	assert.Equal(t, "ok", c.Response)
}

func TestParse_BareJSONEmbeddedInProse(t *testing.T) {
	raw := `Sure. {"needs_data": false, "response": "42"} Hope that helps.`

	c, err := completion.Parse(raw)

	require.NoError(t, err)
	assert.Equal(t, "42", c.Response)
}

func TestParse_NoJSON(t *testing.T) {
	_, err := completion.Parse("I could not produce a structured answer.")

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := completion.Parse(`{"needs_data": true, "queries": [`)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParse_DataCompletionWithoutPayload(t *testing.T) {
	_, err := completion.Parse(`{"needs_data": true}`)

	require.Error(t, err)
}

func TestValidQueries_DropsHalfFormedEntries(t *testing.T) {
	c, err := completion.Parse(`{
		"needs_data": true,
		"queries": [
			{"key": "good", "query": "SELECT 1"},
			{"key": "", "query": "SELECT 2"},
			{"key": "no_sql", "query": ""},
			{"key": "also_good", "query": "SELECT 3", "doctype": "Customer"}
		],
		"template": "t"
	}`)

	require.NoError(t, err)
	valid := c.ValidQueries()
	require.Len(t, valid, 2)
	assert.Equal(t, "good", valid[0].Key)
	assert.Equal(t, "also_good", valid[1].Key)
	assert.Equal(t, "Customer", valid[1].Doctype)
}

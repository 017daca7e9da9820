package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type testSuggestions struct {
	Subtasks []struct {
		Name string `json:"name"`
	} `json:"subtasks"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"subtasks":[{"name":"Survey site"}],"confidence":0.95}`
	result, err := ExtractJSON[testSuggestions](raw, nil)
	require.NoError(t, err)
	require.Len(t, result.Subtasks, 1)
	assert.Equal(t, "Survey site", result.Subtasks[0].Name)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestExtractJSON_FencedWithSurroundingText(t *testing.T) {
	raw := "Here you go:\n```json\n{\"subtasks\":[{\"name\":\"Pour footing\"}]}\n```\nLet me know!"
	result, err := ExtractJSON[testSuggestions](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pour footing", result.Subtasks[0].Name)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"subtasks":[{"name":"Check {anchor} bolts"}]} trailing }`
	result, err := ExtractJSON[testSuggestions](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Check {anchor} bolts", result.Subtasks[0].Name)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  // best guess\n  \"subtasks\": [],\n  \"confidence\": .7 /* rough */\n}"
	result, err := ExtractJSON[testSuggestions](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.7, result.Confidence)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testSuggestions]("I cannot help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testSuggestions](`{"subtasks": [broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validator(t *testing.T) {
	nonEmpty := func(s testSuggestions) error {
		if len(s.Subtasks) == 0 {
			return fmt.Errorf("no subtasks")
		}
		return nil
	}

	_, err := ExtractJSON(`{"subtasks":[]}`, nonEmpty)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = ExtractJSON(`{"subtasks":[{"name":"x"}]}`, nonEmpty)
	assert.NoError(t, err)
}

func TestExtractJSONObject_PreservesKeyOrder(t *testing.T) {
	raw := "```json\n{\"Zeta\": [\"a\"], \"Alpha\": [\"b\"], \"Mid\": []}\n```"

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)

	var keys []string
	obj.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, keys)
}

func TestExtractJSONObject_Invalid(t *testing.T) {
	_, err := ExtractJSONObject(`{"Stage": [unquoted]}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = ExtractJSONObject("nothing here")
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestNormalizeLeadingDecimalNumbers_IgnoresStrings(t *testing.T) {
	assert.Equal(t, `{"v":"x.5","n":[0.5,-0.25]}`, normalizeLeadingDecimalNumbers(`{"v":"x.5","n":[.5,-.25]}`))
}

func TestStripJSONComments(t *testing.T) {
	in := "{\"url\":\"http://x\", // trailing\n\"n\": /* inline */ 1}"
	assert.Equal(t, "{\"url\":\"http://x\", \n\"n\":  1}", stripJSONComments(in))
	assert.Equal(t, `{"a":1 `, stripJSONComments(`{"a":1 /* never closed`))
}

func TestExtractJSONBlock_BracesInsideStrings(t *testing.T) {
	raw := `Sure: {"name":"a } \" { b","n":{"x":1}} and more {"ignored":true}`
	assert.Equal(t, `{"name":"a } \" { b","n":{"x":1}}`, extractJSONBlock(raw))
	assert.Empty(t, extractJSONBlock(`{"unbalanced": {`))
}

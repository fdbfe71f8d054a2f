package reddit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageAccessorsDefensive(t *testing.T) {
	m := Message{
		"str":    "value",
		"num":    3.14,
		"flag":   true,
		"nested": map[string]any{"inner": "deep"},
		"list":   []any{map[string]any{"a": "1"}, "not an object", map[string]any{"b": "2"}},
	}

	assert.Equal(t, "value", m.GetString("str"))
	assert.Equal(t, "", m.GetString("num"))
	assert.Equal(t, "", m.GetString("missing"))

	assert.True(t, m.GetBool("flag"))
	assert.False(t, m.GetBool("str"))
	assert.False(t, m.GetBool("missing"))

	assert.Equal(t, "deep", m.GetMessage("nested").GetString("inner"))
	assert.Nil(t, m.GetMessage("str"))
	assert.Nil(t, m.GetMessage("missing"))

	// Non-object list elements are skipped.
	ms := m.GetMessages("list")
	require.Len(t, ms, 2)
	assert.Equal(t, "1", ms[0].GetString("a"))
	assert.Equal(t, "2", ms[1].GetString("b"))

	assert.Nil(t, m.GetMessages("str"))
}

func TestNilMessageAccessorsSafe(t *testing.T) {
	var m Message

	assert.Equal(t, "", m.GetString("any"))
	assert.False(t, m.GetBool("any"))
	assert.Nil(t, m.GetMessage("any"))
	assert.Nil(t, m.GetMessages("any"))

	// Chained lookups through absent objects resolve to absence, never
	// panic.
	assert.Equal(t, "", m.GetMessage("a").GetMessage("b").GetString("c"))
}

func TestParseListingPageFullShape(t *testing.T) {
	listing, err := ParseListingPage([]byte(`{"data":{
		"children": [
			{"kind": "t3", "data": {"id": "p1"}},
			{"kind": "t1", "data": {"id": "c1"}}
		],
		"after": "t3_p1"
	}}`))
	require.NoError(t, err)

	require.Len(t, listing.Children, 2)
	assert.Equal(t, "t3", listing.Children[0].GetString("kind"))
	assert.Equal(t, "t3_p1", listing.After)
}

func TestParseListingPageBareArray(t *testing.T) {
	listing, err := ParseListingPage([]byte(`[{"kind": "t3", "data": {"id": "p1"}}]`))
	require.NoError(t, err)

	require.Len(t, listing.Children, 1)
	assert.Empty(t, listing.After)
}

func TestParseListingPageEmptyObject(t *testing.T) {
	// Missing fields are data variability, not a contract violation.
	listing, err := ParseListingPage([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, listing.Children)
}

func TestParseListingPageContractViolation(t *testing.T) {
	_, err := ParseListingPage([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = ParseListingPage([]byte(`42`))
	assert.Error(t, err)

	_, err = ParseListingPage([]byte(`[1, 2, 3]`))
	assert.Error(t, err)
}

func TestParsePost(t *testing.T) {
	m, err := ParsePost([]byte(`{"data": {"id": "p1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "p1", m.GetMessage("data").GetString("id"))

	_, err = ParsePost([]byte(`[1]`))
	assert.Error(t, err)
}

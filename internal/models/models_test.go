package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationNodeSerialisesEmptyChildren(t *testing.T) {
	raw, err := json.Marshal(NavigationNode{Title: "IST 1 A", URL: "/classes/c1/m1/s1", Children: []NavigationNode{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"IST 1 A","url":"/classes/c1/m1/s1","children":[]}`, string(raw))
}

func TestFlattenedEntryHasParent(t *testing.T) {
	assert.False(t, FlattenedEntry{Group: "Home"}.HasParent())
	assert.True(t, FlattenedEntry{Group: "Classes", ParentURL: "/classes/r1"}.HasParent())
}

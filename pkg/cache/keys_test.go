package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListKey(t *testing.T) {
	type params struct {
		Site string
		Page int
	}

	k1, err := ListKey("t1", params{Site: "s1", Page: 1})
	require.NoError(t, err)
	k2, err := ListKey("t1", params{Site: "s1", Page: 2})
	require.NoError(t, err)
	k3, err := ListKey("t1", params{Site: "s1", Page: 1})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(k1, "catalog:list:t1:"))
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}

func TestListPattern(t *testing.T) {
	assert.Equal(t, "catalog:list:t1:*", ListPattern("t1"))
	assert.Equal(t, "catalog:list:*", ListPattern(""))
}

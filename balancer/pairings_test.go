package balancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTeammateHistory(t *testing.T) {
	players := []string{"ann", "bob", "cat", "dan"}
	h := BuildTeammateHistory(players, [][][]string{
		{{"ann", "bob", "zed"}, {"cat", "dan"}},
		{{"ann", "bob"}, {"cat", "ann"}},
		{{"bob", "bob", "dan"}},
	})

	assert.Equal(t, 2, h.Count("ann", "bob"))
	assert.Equal(t, 2, h.Count("bob", "ann"))
	assert.Equal(t, 1, h.Count("cat", "dan"))
	assert.Equal(t, 1, h.Count("ann", "cat"))
	assert.Equal(t, 1, h.Count("bob", "dan"))
	assert.Equal(t, 0, h.Count("ann", "dan"))
	assert.Equal(t, 0, h.Count("ann", "zed"))
	for i := range players {
		assert.Zero(t, h.Matrix[i][i])
	}
}

func TestTeammateHistoryValidate(t *testing.T) {
	var nilHistory *TeammateHistory
	assert.NoError(t, nilHistory.validate())

	bad := &TeammateHistory{Players: []string{"a", "b"}, Matrix: [][]int{{0, 1}, {1}}}
	var cfgErr *ConfigError
	require.ErrorAs(t, bad.validate(), &cfgErr)
	assert.Equal(t, CodeInvalidHistory, cfgErr.Code)
}

func TestPairCountsReindexesByPool(t *testing.T) {
	h := BuildTeammateHistory([]string{"x", "a", "b"}, [][][]string{{{"a", "b", "x"}}, {{"a", "b"}}})
	names, ratings := []string{"b", "new", "a"}, map[string]Rating{}
	p := testPool(names, ratings)

	pc := newPairCounts(h, p)
	require.True(t, pc.enabled())
	assert.Equal(t, 2, pc.count(0, 2))
	assert.Equal(t, 2, pc.count(2, 0))
	assert.Equal(t, 0, pc.count(0, 1))

	assert.False(t, newPairCounts(nil, p).enabled())
}

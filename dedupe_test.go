package confd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeCacheReturnsSameBytesForIdenticalTree(t *testing.T) {
	d := newDedupeCache(1 << 20)

	root := map[string]interface{}{"listeners": map[string]interface{}{}, "applications": map[string]interface{}{}}

	b1, err := d.encode(root)
	require.NoError(t, err)

	b2, err := d.encode(root)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestDedupeCacheDistinguishesDifferentTrees(t *testing.T) {
	d := newDedupeCache(1 << 20)

	a, err := d.encode(map[string]interface{}{"k": "v1"})
	require.NoError(t, err)

	b, err := d.encode(map[string]interface{}{"k": "v2"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashKeyDeterministic(t *testing.T) {
	a := hashKey([]byte("hello"))
	b := hashKey([]byte("hello"))
	assert.Equal(t, a, b)

	c := hashKey([]byte("world"))
	assert.NotEqual(t, a, c)
}

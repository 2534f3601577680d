package confd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreInitialSnapshotIsEmptyTree(t *testing.T) {
	s := newStore()
	snap := s.currentSnapshot()
	assert.Equal(t, emptyTree(), snap.root)
}

func TestStoreSwapInstallsNewSnapshot(t *testing.T) {
	s := newStore()

	newRoot := map[string]interface{}{"listeners": map[string]interface{}{}, "applications": map[string]interface{}{}}
	next := &snapshot{root: newRoot, arena: newArena(newRoot)}

	s.swap(next)

	assert.True(t, s.currentSnapshot() == next)
}

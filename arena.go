package confd

import "sync"

// Arena is a region allocator for a single tree. Every node reachable from
// an Arena's root was built while that Arena was active; destroying the
// Arena releases its scratch buffer back to the pool as a single unit
// instead of the caller tracking individual node lifetimes. Go's garbage
// collector reclaims the node graph itself, but the Arena still gives the
// rest of the system (Store, Serializer) the "destroy the whole thing at
// once" vocabulary the original design relies on — see §9.
//
// Arena is a value holder, not a reference-counted graph. The compiler's
// clone-on-write (compiler.go's cloneEdit) copies only the containers on the
// edited path; untouched subtrees are shared between the old and the new
// tree, which is safe because published trees are never mutated.
type Arena struct {
	root   Value
	scratch []byte
}

// arenaPool recycles Arena values together with their byte scratch buffer,
// generalized from Pool's sync.Pool-of-framework-structs pattern. No code
// path currently writes into the scratch buffer; JSON encoding and decoding
// allocate their own buffers.
var arenaPool = &sync.Pool{
	New: func() interface{} {
		return &Arena{scratch: make([]byte, 0, 4096)}
	},
}

// newArena returns an empty Arena holding root.
func newArena(root Value) *Arena {
	a := arenaPool.Get().(*Arena)
	a.root = root
	a.scratch = a.scratch[:0]
	return a
}

// destroy releases a's scratch buffer back to the pool. It must not be
// called on an Arena that is still reachable as the current or a queued
// snapshot.
func (a *Arena) destroy() {
	if a == nil {
		return
	}
	a.root = nil
	arenaPool.Put(a)
}

package engine

import (
	"github.com/dgraph-io/ristretto/v2"
)

// pawnScore is a cached (midgame, endgame) score pair for one pawn
// skeleton, keyed by Position.PawnKey.
type pawnScore struct {
	Mg int32
	Eg int32
}

// PawnCache stores (midgame, endgame) score pairs per pawn structure. The
// evaluation does not read or write it; EvaluateWithPawnCache accepts it
// without consulting it. Backed by ristretto, which admits/evicts by an access-frequency estimate
// rather than a fixed table slot, so entries for skeletons that recur often
// across the search tree (transpositions, null-move siblings) tend to
// survive longer than a plain fixed-size table would keep them.
type PawnCache struct {
	cache *ristretto.Cache[uint64, pawnScore]
}

// NewPawnCache creates a pawn-structure cache sized for roughly
// maxEntries distinct pawn skeletons.
func NewPawnCache(maxEntries int64) *PawnCache {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, pawnScore]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		// A misconfigured cache is a programmer error, not a runtime
		// condition the engine can recover from.
		panic(err)
	}
	return &PawnCache{cache: cache}
}

// Probe returns the cached (mg, eg) score for key, if present.
func (c *PawnCache) Probe(key uint64) (mg, eg int, found bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return 0, 0, false
	}
	return int(v.Mg), int(v.Eg), true
}

// Store caches the (mg, eg) score for key. It waits for ristretto's write
// buffer to drain, so an admitted entry is visible to the next Probe.
func (c *PawnCache) Store(key uint64, mg, eg int) {
	c.cache.Set(key, pawnScore{Mg: int32(mg), Eg: int32(eg)}, 1)
	c.cache.Wait()
}

// Clear discards every cached entry, used on ucinewgame.
func (c *PawnCache) Clear() {
	c.cache.Clear()
}

package bingo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test Components ---
type position struct {
	NoDestroy
	X, Y float32
}

type hooked struct {
	N         int
	onDestroy func(owner Entity, n int)
}

func (h hooked) OnDestroy(owner Entity) {
	if h.onDestroy != nil {
		h.onDestroy(owner, h.N)
	}
}

func ent(id uint32) Entity { return Entity{ID: id} }

// checkInvariants verifies the two-way index and the sentinel slot.
func checkInvariants[T Component](t *testing.T, s *Storage[T]) {
	t.Helper()
	var zero T
	require.Equal(t, zero, s.dense[0], "sentinel value must stay zero")
	require.Equal(t, Entity{}, s.owners[0], "sentinel owner must stay zero")
	for i := uint32(1); i < s.count; i++ {
		owner := s.owners[i]
		require.NotZero(t, owner.ID, "gap at slot %d", i)
		require.Equal(t, i, s.slot(owner.ID), "sparse/dense disagree for entity %d", owner.ID)
	}
	for i := s.count; i < uint32(len(s.owners)); i++ {
		require.Zero(t, s.owners[i].ID, "stale owner beyond count at slot %d", i)
	}
}

// go test -run ^TestStorageRoundTrip$ . -count 1
func TestStorageRoundTrip(t *testing.T) {
	s := NewStorage[position](4, nil)
	e := ent(7)

	require.NoError(t, s.Add(e, position{X: 1, Y: 2}))
	assert.Equal(t, position{X: 1, Y: 2}, *s.Get(e))

	p, err := s.Lookup(e)
	require.NoError(t, err)
	p.X = 10
	assert.Equal(t, float32(10), s.Get(e).X, "Get must return a reference into storage")
	checkInvariants(t, s)
}

func TestStorageHasConsistency(t *testing.T) {
	s := NewStorage[position](4, nil)
	e := ent(3)

	assert.False(t, s.Has(e))
	require.NoError(t, s.Add(e, position{}))
	assert.True(t, s.Has(e))
	require.NoError(t, s.Remove(e))
	assert.False(t, s.Has(e))
	assert.Equal(t, 0, s.Len())
}

func TestStorageDuplicateRejected(t *testing.T) {
	s := NewStorage[position](4, nil)
	e := ent(1)
	require.NoError(t, s.Add(e, position{X: 1}))
	version := s.Version()

	err := s.Add(e, position{X: 2})
	require.ErrorIs(t, err, ErrDuplicateComponent)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, float32(1), s.Get(e).X, "failed add must not overwrite")
	assert.Equal(t, version, s.Version())
	checkInvariants(t, s)
}

func TestStorageMissingComponent(t *testing.T) {
	s := NewStorage[position](4, nil)

	require.ErrorIs(t, s.Remove(ent(5)), ErrMissingComponent)
	_, err := s.Lookup(ent(5))
	require.ErrorIs(t, err, ErrMissingComponent)
}

func TestStorageZeroEntity(t *testing.T) {
	s := NewStorage[position](4, nil)

	require.ErrorIs(t, s.Add(Entity{}, position{}), ErrInvalidEntity)
	assert.False(t, s.Has(Entity{}))
	assert.Equal(t, 0, s.Len())
}

// go test -run ^TestStorageSwapRemove$ . -count 1
func TestStorageSwapRemove(t *testing.T) {
	s := NewStorage[position](4, nil)
	a, b, c := ent(10), ent(20), ent(30)
	require.NoError(t, s.Add(a, position{X: 1}))
	require.NoError(t, s.Add(b, position{X: 2}))
	require.NoError(t, s.Add(c, position{X: 3}))
	require.Equal(t, uint32(1), s.slot(a.ID))
	require.Equal(t, uint32(2), s.slot(b.ID))
	require.Equal(t, uint32(3), s.slot(c.ID))

	require.NoError(t, s.Remove(b))

	assert.Equal(t, position{X: 3}, s.dense[2], "slot 2 must hold C's value")
	assert.False(t, s.Has(b))
	assert.True(t, s.Has(a))
	assert.True(t, s.Has(c))
	assert.Equal(t, uint32(2), s.slot(c.ID))
	assert.Equal(t, uint32(0), s.slot(b.ID))
	assert.Equal(t, []Entity{a, c}, s.Entities())
	assert.Equal(t, []position{{X: 1}, {X: 3}}, s.Values())
	checkInvariants(t, s)
}

func TestStorageRemoveLast(t *testing.T) {
	s := NewStorage[position](4, nil)
	a, b := ent(1), ent(2)
	require.NoError(t, s.Add(a, position{X: 1}))
	require.NoError(t, s.Add(b, position{X: 2}))

	require.NoError(t, s.Remove(b))

	assert.False(t, s.Has(b))
	assert.Equal(t, uint32(1), s.slot(a.ID))
	assert.Equal(t, position{}, s.dense[2], "vacated slot must be cleared")
	checkInvariants(t, s)

	require.NoError(t, s.Remove(a))
	assert.Empty(t, s.Entities())
	checkInvariants(t, s)
}

func TestStorageGrowth(t *testing.T) {
	s := NewStorage[position](2, nil)
	for id := uint32(1); id <= 100; id++ {
		require.NoError(t, s.Add(ent(id), position{X: float32(id)}))
	}
	assert.Equal(t, 100, s.Len())
	for id := uint32(1); id <= 100; id++ {
		assert.Equal(t, float32(id), s.Get(ent(id)).X)
	}
	checkInvariants(t, s)
}

// go test -run ^TestStorageCompactionInvariant$ . -count 1
func TestStorageCompactionInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewStorage[position](8, nil)
	live := make(map[uint32]float32)

	for step := range 5000 {
		id := uint32(rng.IntN(3000)) + 1
		if _, ok := live[id]; ok {
			require.NoError(t, s.Remove(ent(id)), "step %d", step)
			delete(live, id)
		} else {
			v := float32(step)
			require.NoError(t, s.Add(ent(id), position{X: v}), "step %d", step)
			live[id] = v
		}
		if step%250 == 0 {
			checkInvariants(t, s)
		}
	}

	checkInvariants(t, s)
	require.Equal(t, len(live), s.Len())
	for id, v := range live {
		require.True(t, s.Has(ent(id)))
		require.Equal(t, v, s.Get(ent(id)).X)
	}
	seen := make(map[uint32]bool, len(live))
	for _, e := range s.Entities() {
		require.False(t, seen[e.ID], "entity %d yielded twice", e.ID)
		seen[e.ID] = true
	}
	require.Len(t, seen, len(live))
}

// go test -run ^TestStorageSparseGrowth$ . -count 1
func TestStorageSparseGrowth(t *testing.T) {
	s := NewStorage[position](4, nil)
	for id := uint32(1); id <= 10; id++ {
		require.NoError(t, s.Add(ent(id), position{X: float32(id)}))
	}
	require.Equal(t, 1, s.sparse.pageCount())

	far := uint32(5_000_000)
	require.NoError(t, s.Add(ent(far), position{X: -1}))

	assert.True(t, s.Has(ent(far)))
	assert.Equal(t, float32(-1), s.Get(ent(far)).X)
	assert.Equal(t, int(far/pageSize)+1, s.sparse.pageCount(), "page table must be sized by page count")
	assert.Equal(t, 2, s.sparse.allocatedPages())
	for id := uint32(1); id <= 10; id++ {
		assert.Equal(t, float32(id), s.Get(ent(id)).X, "low entity %d corrupted", id)
	}
	checkInvariants(t, s)
}

// go test -run ^TestStorageDestroyHook$ . -count 1
func TestStorageDestroyHook(t *testing.T) {
	s := NewStorage[hooked](4, nil)
	type call struct {
		owner   Entity
		n       int
		present bool
	}
	var calls []call
	record := func(owner Entity, n int) {
		calls = append(calls, call{owner: owner, n: n, present: s.Has(owner)})
	}
	a, b := ent(1), ent(2)
	require.NoError(t, s.Add(a, hooked{N: 1, onDestroy: record}))
	require.NoError(t, s.Add(b, hooked{N: 2, onDestroy: record}))

	require.NoError(t, s.Remove(a))
	require.Len(t, calls, 1)
	assert.Equal(t, call{owner: a, n: 1, present: true}, calls[0], "hook runs before the value leaves storage")

	c := ent(3)
	require.NoError(t, s.Add(c, hooked{N: 3, onDestroy: record}))
	assert.Len(t, calls, 1, "adding into the freed slot must not re-run the hook")
	assert.Equal(t, 3, s.Get(c).N)

	require.ErrorIs(t, s.Remove(a), ErrMissingComponent)
	assert.Len(t, calls, 1, "a failed remove must not run the hook")
}

func TestStoragePanickingHook(t *testing.T) {
	s := NewStorage[hooked](4, nil)
	boom := func(Entity, int) { panic("boom") }
	a, b := ent(1), ent(2)
	require.NoError(t, s.Add(a, hooked{N: 1, onDestroy: boom}))
	require.NoError(t, s.Add(b, hooked{N: 2}))
	version := s.Version()

	assert.PanicsWithValue(t, "boom", func() { _ = s.Remove(a) })

	assert.True(t, s.Has(a))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, version, s.Version())
	checkInvariants(t, s)
}

// go test -run ^TestStorageReentrantHook$ . -count 1
func TestStorageReentrantHook(t *testing.T) {
	tests := []struct {
		name string
		hook func(s *Storage[hooked]) func(Entity, int)
	}{
		{"RemoveOther", func(s *Storage[hooked]) func(Entity, int) {
			return func(Entity, int) { _ = s.Remove(ent(1)) }
		}},
		{"AddOther", func(s *Storage[hooked]) func(Entity, int) {
			return func(Entity, int) { _ = s.Add(ent(4), hooked{N: 4}) }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStorage[hooked](4, nil)
			a, b, c := ent(1), ent(2), ent(3)
			require.NoError(t, s.Add(a, hooked{N: 1}))
			require.NoError(t, s.Add(b, hooked{N: 2}))
			require.NoError(t, s.Add(c, hooked{N: 3, onDestroy: tt.hook(s)}))

			func() {
				defer func() {
					r := recover()
					require.NotNil(t, r, "expected panic")
					err, ok := r.(error)
					require.True(t, ok)
					assert.ErrorIs(t, err, ErrStorageMutated)
				}()
				_ = s.Remove(c)
			}()

			assert.True(t, s.Has(c), "aborted removal must keep the entity")
			assert.Equal(t, 3, s.Get(c).N)
			for _, e := range s.Entities() {
				assert.True(t, s.Has(e))
			}
			checkInvariants(t, s)
		})
	}
}

func TestStorageHookMayTouchOtherTypes(t *testing.T) {
	s := NewStorage[hooked](4, nil)
	others := NewStorage[position](4, nil)
	a := ent(1)
	require.NoError(t, others.Add(a, position{X: 1}))
	require.NoError(t, s.Add(a, hooked{onDestroy: func(owner Entity, _ int) {
		require.NoError(t, others.Remove(owner))
	}}))

	require.NoError(t, s.Remove(a))

	assert.False(t, s.Has(a))
	assert.False(t, others.Has(a))
	checkInvariants(t, s)
	checkInvariants(t, others)
}

func TestStorageAll(t *testing.T) {
	s := NewStorage[position](4, nil)
	for id := uint32(1); id <= 5; id++ {
		require.NoError(t, s.Add(ent(id), position{X: float32(id)}))
	}

	t.Run("VisitsEveryPair", func(t *testing.T) {
		sum := float32(0)
		n := 0
		for e, p := range s.All() {
			assert.Equal(t, float32(e.ID), p.X)
			sum += p.X
			n++
		}
		assert.Equal(t, 5, n)
		assert.Equal(t, float32(15), sum)
	})

	t.Run("EarlyBreak", func(t *testing.T) {
		n := 0
		for range s.All() {
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})

	t.Run("MutationPanics", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected panic")
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrStorageMutated)
		}()
		for e := range s.All() {
			_ = s.Remove(e)
		}
	})
}

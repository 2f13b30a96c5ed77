package memory

import (
	"context"
	"sort"
	"sync"

	"critter-market/internal/domain/creatures"
)

// CreatureStore es el store in-memory para dev y tests. El alcance atómico
// se implementa clonando los mapas al empezar: el callback muta el clon y
// recién en el commit se reemplaza el estado vivo. A la escala de este
// servicio el clon es barato y el rollback sale gratis.
type CreatureStore struct {
	mu       sync.Mutex
	maxOwned int

	byID  map[string]creatures.Creature
	owned map[string][]string
	count uint64
}

func NewCreatureStore(maxOwned int) *CreatureStore {
	return &CreatureStore{
		maxOwned: maxOwned,
		byID:     make(map[string]creatures.Creature),
		owned:    make(map[string][]string),
	}
}

func (s *CreatureStore) Atomically(ctx context.Context, fn func(tx creatures.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.begin()
	if err := fn(tx); err != nil {
		return err
	}

	s.byID = tx.byID
	s.owned = tx.owned
	s.count = tx.count
	return nil
}

func (s *CreatureStore) View(ctx context.Context, fn func(tx creatures.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// mismo clon que Atomically, pero sin commit: cualquier escritura
	// del callback se descarta
	return fn(s.begin())
}

func (s *CreatureStore) begin() *memTx {
	byID := make(map[string]creatures.Creature, len(s.byID))
	for k, v := range s.byID {
		byID[k] = v
	}
	owned := make(map[string][]string, len(s.owned))
	for k, v := range s.owned {
		ids := make([]string, len(v))
		copy(ids, v)
		owned[k] = ids
	}
	return &memTx{maxOwned: s.maxOwned, byID: byID, owned: owned, count: s.count}
}

type memTx struct {
	maxOwned int
	byID     map[string]creatures.Creature
	owned    map[string][]string
	count    uint64
}

func (t *memTx) Creature(id string) (creatures.Creature, error) {
	c, ok := t.byID[id]
	if !ok {
		return creatures.Creature{}, creatures.ErrAssetNotFound
	}
	return c, nil
}

func (t *memTx) PutCreature(c creatures.Creature) error {
	t.byID[c.ID] = c
	return nil
}

func (t *memTx) OwnedBy(account string) ([]string, error) {
	ids := make([]string, len(t.owned[account]))
	copy(ids, t.owned[account])
	return ids, nil
}

func (t *memTx) AppendOwned(account, id string) error {
	if err := t.CanOwnMore(account); err != nil {
		return err
	}
	t.owned[account] = append(t.owned[account], id)
	return nil
}

func (t *memTx) RemoveOwned(account, id string) error {
	ids := t.owned[account]
	for i := range ids {
		if ids[i] == id {
			// swap-remove: el orden del índice no significa nada
			ids[i] = ids[len(ids)-1]
			t.owned[account] = ids[:len(ids)-1]
			return nil
		}
	}
	return creatures.ErrAssetNotFound
}

func (t *memTx) CanOwnMore(account string) error {
	if len(t.owned[account]) >= t.maxOwned {
		return creatures.ErrExceedMaxOwned
	}
	return nil
}

func (t *memTx) Count() (uint64, error) {
	return t.count, nil
}

func (t *memTx) SetCount(n uint64) error {
	t.count = n
	return nil
}

func (t *memTx) Listings() ([]creatures.Creature, error) {
	out := make([]creatures.Creature, 0)
	for _, c := range t.byID {
		if c.ForSale() {
			out = append(out, c)
		}
	}
	// orden estable por id (solo para respuestas consistentes en dev)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

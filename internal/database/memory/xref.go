package memory

import (
	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrogolib/set"
)

// AddCrossReference records that from references to.
func (db *Database) AddCrossReference(to, from address.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	addEdge(db.refsFrom, to, from)
	addEdge(db.refsTo, from, to)
	return nil
}

// RemoveCrossReference removes all references that from makes.
func (db *Database) RemoveCrossReference(from address.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for to := range db.refsTo[from] {
		refs := db.refsFrom[to]
		delete(refs, from)
		if len(refs) == 0 {
			delete(db.refsFrom, to)
		}
	}
	delete(db.refsTo, from)
	return nil
}

// RemoveCrossReferences removes all cross-references.
func (db *Database) RemoveCrossReferences() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.refsFrom = map[address.Address]set.Set[address.Address]{}
	db.refsTo = map[address.Address]set.Set[address.Address]{}
	return nil
}

// HasCrossReferenceFrom returns whether any address references to.
func (db *Database) HasCrossReferenceFrom(to address.Address) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.refsFrom[to]) > 0
}

// CrossReferenceFrom returns the addresses that reference to.
func (db *Database) CrossReferenceFrom(to address.Address) (address.List, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return edges(db.refsFrom[to])
}

// HasCrossReferenceTo returns whether from references any address.
func (db *Database) HasCrossReferenceTo(from address.Address) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.refsTo[from]) > 0
}

// CrossReferenceTo returns the addresses that from references.
func (db *Database) CrossReferenceTo(from address.Address) (address.List, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return edges(db.refsTo[from])
}

func addEdge(m map[address.Address]set.Set[address.Address], key, value address.Address) {
	s, ok := m[key]
	if !ok {
		s = set.New[address.Address]()
		m[key] = s
	}
	s.Add(value)
}

func edges(s set.Set[address.Address]) (address.List, bool) {
	if len(s) == 0 {
		return nil, false
	}
	list := make(address.List, 0, len(s))
	for addr := range s {
		list = append(list, addr)
	}
	list.Sort()
	return list, true
}

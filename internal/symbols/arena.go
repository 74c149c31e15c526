package symbols

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Symbols is the arena behind a Table. Slot 0 is the NoSymbolID sentinel,
// so the ID of a symbol is its slot index.
type Symbols struct {
	slots []Symbol
}

// NewSymbols reserves room for capacity symbols; 0 picks a small default.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{slots: make([]Symbol, 1, capacity+1)}
}

func slotID(slot int) SymbolID {
	v, err := safecast.Conv[uint32](slot)
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	return SymbolID(v)
}

// New copies sym into the arena and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	id := slotID(len(s.slots))
	s.slots = append(s.slots, *sym)
	return id
}

// Get returns nil for NoSymbolID and IDs past the end.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if id == NoSymbolID || int(id) >= len(s.slots) {
		return nil
	}
	return &s.slots[id]
}

// Len excludes the sentinel.
func (s *Symbols) Len() int { return len(s.slots) - 1 }

// All yields every symbol in allocation order. Symbols allocated while
// iterating are not visited.
func (s *Symbols) All() iter.Seq2[SymbolID, *Symbol] {
	return func(yield func(SymbolID, *Symbol) bool) {
		n := len(s.slots)
		for i := 1; i < n; i++ {
			if !yield(slotID(i), &s.slots[i]) {
				return
			}
		}
	}
}

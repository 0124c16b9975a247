package scope

import (
	"fmt"

	"fortio.org/safecast"

	"plexilc/internal/ast"
)

// Mutex is a declared mutex.
type Mutex struct {
	Name  string
	Decl  ast.NodeID
	Scope ast.ScopeID
}

// Mutexes stores mutexes; index 0 is reserved for NoMutexID.
type Mutexes struct {
	data []Mutex
}

func NewMutexes(capacity uint32) *Mutexes {
	if capacity == 0 {
		capacity = 8
	}
	return &Mutexes{data: make([]Mutex, 1, capacity+1)}
}

func (ms *Mutexes) New(m Mutex) ast.MutexID {
	value, err := safecast.Conv[uint32](len(ms.data))
	if err != nil {
		panic(fmt.Errorf("mutexes arena overflow: %w", err))
	}
	ms.data = append(ms.data, m)
	return ast.MutexID(value)
}

func (ms *Mutexes) Get(id ast.MutexID) *Mutex {
	if !id.IsValid() || int(id) >= len(ms.data) {
		return nil
	}
	return &ms.data[id]
}

func (ms *Mutexes) Len() int { return len(ms.data) - 1 }

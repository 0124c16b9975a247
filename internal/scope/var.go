package scope

import (
	"fmt"

	"fortio.org/safecast"

	"plexilc/internal/ast"
	"plexilc/internal/types"
)

// VarKind says how a variable was introduced.
type VarKind uint8

const (
	VarLocal VarKind = iota
	VarIn
	VarInOut
	// VarParam is a parameter of a command, state or library declaration.
	VarParam
	// VarLoop is the variable of a For loop.
	VarLoop
)

func (k VarKind) String() string {
	switch k {
	case VarLocal:
		return "local"
	case VarIn:
		return "In"
	case VarInOut:
		return "InOut"
	case VarParam:
		return "parameter"
	case VarLoop:
		return "loop"
	default:
		return "invalid"
	}
}

// Var is a declared variable or parameter.
type Var struct {
	Name    string
	Type    types.Type
	MaxSize int64
	Kind    VarKind
	Scope   ast.ScopeID
	// Decl is the declaring node; Init the initial value or default expression.
	Decl ast.NodeID
	Init ast.NodeID
	// Link is the inherited variable an interface declaration restricts.
	Link ast.VarID
}

// IsLocal reports variables declared in the node itself.
func (v *Var) IsLocal() bool { return v.Kind == VarLocal || v.Kind == VarLoop }

// IsAssignable reports whether the variable may be assigned.
func (v *Var) IsAssignable() bool {
	return v.Kind == VarLocal || v.Kind == VarInOut || v.Kind == VarParam
}

// IsArray reports array variables.
func (v *Var) IsArray() bool { return v.Type.IsArray() }

// Vars stores variables; index 0 is reserved for NoVarID.
type Vars struct {
	data []Var
}

func NewVars(capacity uint32) *Vars {
	if capacity == 0 {
		capacity = 64
	}
	return &Vars{data: make([]Var, 1, capacity+1)}
}

func (vs *Vars) New(v Var) ast.VarID {
	value, err := safecast.Conv[uint32](len(vs.data))
	if err != nil {
		panic(fmt.Errorf("vars arena overflow: %w", err))
	}
	vs.data = append(vs.data, v)
	return ast.VarID(value)
}

func (vs *Vars) Get(id ast.VarID) *Var {
	if !id.IsValid() || int(id) >= len(vs.data) {
		return nil
	}
	return &vs.data[id]
}

func (vs *Vars) Len() int { return len(vs.data) - 1 }

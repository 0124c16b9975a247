package ast

type (
	NodeID uint32
	// annotations filled in by semantic analysis
	ScopeID uint32
	VarID   uint32
	MutexID uint32
	DeclID  uint32
)

const (
	NoNodeID  NodeID  = 0
	NoScopeID ScopeID = 0
	NoVarID   VarID   = 0
	NoMutexID MutexID = 0
	NoDeclID  DeclID  = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id ScopeID) IsValid() bool { return id != NoScopeID }
func (id VarID) IsValid() bool   { return id != NoVarID }
func (id MutexID) IsValid() bool { return id != NoMutexID }
func (id DeclID) IsValid() bool  { return id != NoDeclID }

// Package action defines the messages exchanged between the event loop, the
// list views and background operations, and the queue that carries them.
package action

import "reflect"

// Action is a requested state transition. The set of implementations is
// closed: only types in this package satisfy it.
type Action interface {
	isAction()
}

// ListID identifies which list a completion belongs to.
type ListID string

const (
	ListBranches ListID = "branches"
	ListStashes  ListID = "stashes"
)

// Op names a kind of repository operation.
type Op string

const (
	OpLoad       Op = "load"
	OpCheckout   Op = "checkout"
	OpCreate     Op = "create"
	OpDelete     Op = "delete"
	OpBulkDelete Op = "bulk-delete"
	OpApply      Op = "apply"
	OpPop        Op = "pop"
)

// Loop-level actions.
type (
	Quit        struct{}
	Suspend     struct{}
	Resume      struct{}
	Tick        struct{}
	Render      struct{}
	Resize      struct{ Width, Height int }
	Error       struct{ Message string }
	ExitError   struct{}
	ToggleView  struct{}
	RepoChanged struct{}
)

// Mode changes.
type (
	StartInputMode struct{}
	EndInputMode   struct{}
	StartFilter    struct{}
	EndFilter      struct{}
)

// Completion actions posted by background operations.
type (
	// ItemsLoaded follows a successful load of List.
	ItemsLoaded struct{ List ListID }
	// LoadingComplete follows a failed load of List.
	LoadingComplete struct{ List ListID }
	// OperationDone follows any mutating operation on List, successful or not.
	OperationDone struct {
		List ListID
		Op   Op
	}
)

// List actions, routed to whichever list view is active.
type (
	// Refresh reloads List, or every list when List is empty.
	Refresh             struct{ List ListID }
	SelectNext          struct{}
	SelectPrevious      struct{}
	SelectFirst         struct{}
	SelectLast          struct{}
	PageUp              struct{}
	PageDown            struct{}
	StageForDeletion    struct{}
	UnstageForDeletion  struct{}
	PrimaryAction       struct{}
	SecondaryAction     struct{}
	DeleteSelected      struct{}
	DeleteStaged        struct{}
	ConfirmDeleteStaged struct{}
	InitNew             struct{}
	CopySelected        struct{}
	// CreateItem carries validated input text to the active list.
	CreateItem struct{ Text string }
	// CreateBranch is the branch input's submit action.
	CreateBranch struct{ Name string }
	// CreateStash is the stash input's submit action.
	CreateStash struct{ Message string }
)

func (Quit) isAction()                {}
func (Suspend) isAction()             {}
func (Resume) isAction()              {}
func (Tick) isAction()                {}
func (Render) isAction()              {}
func (Resize) isAction()              {}
func (Error) isAction()               {}
func (ExitError) isAction()           {}
func (ToggleView) isAction()          {}
func (RepoChanged) isAction()         {}
func (StartInputMode) isAction()      {}
func (EndInputMode) isAction()        {}
func (StartFilter) isAction()         {}
func (EndFilter) isAction()           {}
func (ItemsLoaded) isAction()         {}
func (LoadingComplete) isAction()     {}
func (OperationDone) isAction()       {}
func (Refresh) isAction()             {}
func (SelectNext) isAction()          {}
func (SelectPrevious) isAction()      {}
func (SelectFirst) isAction()         {}
func (SelectLast) isAction()          {}
func (PageUp) isAction()              {}
func (PageDown) isAction()            {}
func (StageForDeletion) isAction()    {}
func (UnstageForDeletion) isAction()  {}
func (PrimaryAction) isAction()       {}
func (SecondaryAction) isAction()     {}
func (DeleteSelected) isAction()      {}
func (DeleteStaged) isAction()        {}
func (ConfirmDeleteStaged) isAction() {}
func (InitNew) isAction()             {}
func (CopySelected) isAction()        {}
func (CreateItem) isAction()          {}
func (CreateBranch) isAction()        {}
func (CreateStash) isAction()         {}

// Name returns the type name of a, for logs.
func Name(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return reflect.TypeOf(a).Name()
}

// Periodic reports whether a is emitted by a timer.
func Periodic(a Action) bool {
	switch a.(type) {
	case Tick, Render:
		return true
	}
	return false
}

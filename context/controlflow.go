package context

import "github.com/cwbudde/go-ecma/values"

// FlowKind is the closed set of ways a statement's evaluation can end
// besides falling through to the next statement. Grounded on the
// teacher's internal/interp/runtime ControlFlowKind (None/Break/Continue/
// Exit/Return, checked after every statement rather than threaded through
// Go's own control flow), extended with Throw so exceptions unwind
// through the exact same after-each-statement check as break/continue/
// return — one mechanism for every non-local exit, per this engine's
// earlier design decision to fold `throw` into it instead of giving
// exceptions a separate Go-level path.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowBreak
	FlowContinue
	FlowReturn
	FlowThrow
)

func (k FlowKind) String() string {
	switch k {
	case FlowNone:
		return "none"
	case FlowBreak:
		return "break"
	case FlowContinue:
		return "continue"
	case FlowReturn:
		return "return"
	case FlowThrow:
		return "throw"
	default:
		return "unknown"
	}
}

// ControlFlow carries a pending non-local exit: the interpreter checks it
// after evaluating every statement and, when IsActive, stops executing
// siblings and returns control to whichever enclosing construct knows how
// to handle that Kind (a loop for Break/Continue, a function call for
// Return, a try/catch for Throw).
type ControlFlow struct {
	Kind  FlowKind
	Label string       // target label for a labeled break/continue; "" for unlabeled
	Value values.Value // payload for Return/Throw; zero value otherwise
}

// Clear resets the signal to FlowNone, consumed.
func (cf *ControlFlow) Clear() { *cf = ControlFlow{} }

func (cf *ControlFlow) IsActive() bool { return cf.Kind != FlowNone }

func (cf *ControlFlow) SetBreak(label string)    { *cf = ControlFlow{Kind: FlowBreak, Label: label} }
func (cf *ControlFlow) SetContinue(label string) { *cf = ControlFlow{Kind: FlowContinue, Label: label} }
func (cf *ControlFlow) SetReturn(v values.Value) { *cf = ControlFlow{Kind: FlowReturn, Value: v} }
func (cf *ControlFlow) SetThrow(v values.Value)  { *cf = ControlFlow{Kind: FlowThrow, Value: v} }

// TargetsLoop reports whether an active Break/Continue with this label (or
// no label) should be consumed by the loop currently handling it. An
// unlabeled signal targets the nearest enclosing loop; a labeled one only
// targets a loop wrapped by a matching LabeledStatement.
func (cf *ControlFlow) TargetsLoop(loopLabel string) bool {
	return cf.Label == "" || cf.Label == loopLabel
}

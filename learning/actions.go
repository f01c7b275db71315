package learning

// Action is one of the fixed symbolic behaviors an agent may choose.
type Action string

// The fixed action vocabulary. Declaration order matters: SelectAction
// breaks Q-value ties by scanning the vocabulary left to right.
const (
	ActionAskQuestion          Action = "ask_question"
	ActionSearchMemory         Action = "search_memory"
	ActionCreateSummary        Action = "create_summary"
	ActionDelegateTask         Action = "delegate_task"
	ActionRequestClarification Action = "request_clarification"
	ActionProposeSolution      Action = "propose_solution"
)

var actionSpace = []Action{
	ActionAskQuestion,
	ActionSearchMemory,
	ActionCreateSummary,
	ActionDelegateTask,
	ActionRequestClarification,
	ActionProposeSolution,
}

// ActionSpace returns the action vocabulary in declaration order.
func ActionSpace() []Action {
	out := make([]Action, len(actionSpace))
	copy(out, actionSpace)
	return out
}

// Valid reports whether a is a member of the fixed vocabulary.
func (a Action) Valid() bool {
	for _, known := range actionSpace {
		if a == known {
			return true
		}
	}
	return false
}

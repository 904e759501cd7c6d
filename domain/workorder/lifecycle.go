package workorder

import "printdesk/domain/state"

const (
	TransitionStart  = "start"
	TransitionFinish = "finish"
	TransitionPickup = "pickup"
)

var (
	statePending   = state.State{Name: string(StatusPending), Category: state.InBacklog}
	stateInProcess = state.State{Name: string(StatusInProcess), Category: state.InProcess}
	stateFinished  = state.State{Name: string(StatusFinished), Category: state.Done}
	statePickedUp  = state.State{Name: string(StatusPickedUp), Category: state.Done}

	// Lifecycle moves an order strictly forward, PICKED_UP is terminal.
	Lifecycle = state.NewStateMachine(
		[]state.State{statePending, stateInProcess, stateFinished, statePickedUp},
		[]state.Transition{
			{Name: TransitionStart, From: statePending, To: stateInProcess},
			{Name: TransitionFinish, From: stateInProcess, To: stateFinished},
			{Name: TransitionPickup, From: stateFinished, To: statePickedUp},
		})

	progressVerbs = map[string]string{
		TransitionStart:  "dimulai",
		TransitionFinish: "diselesaikan",
		TransitionPickup: "diambil",
	}
)

func IsDone(s Status) bool {
	st, found := Lifecycle.FindState(string(s))
	return found && st.Category == state.Done
}

// ProgressVerb is the word used in the success message of a transition.
func ProgressVerb(transition string) string {
	return progressVerbs[transition]
}

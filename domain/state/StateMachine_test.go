package state_test

import (
	"printdesk/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
		pending      = state.State{Name: "PENDING", Category: state.InBacklog}
		doing        = state.State{Name: "DOING", Category: state.InProcess}
		done         = state.State{Name: "DONE", Category: state.Done}
		archived     = state.State{Name: "ARCHIVED", Category: state.Done}
	)

	BeforeEach(func() {
		//          PENDING      DOING        DONE         ARCHIVED
		// PENDING  -            V (begin)    V (close)    X
		// DOING    V (cancel)   -            V (finish)   X
		// DONE     X            X            -            V (archive)
		// ARCHIVED X            X            X            -
		stateMachine = state.NewStateMachine(
			[]state.State{pending, doing, done, archived},
			[]state.Transition{
				{Name: "begin", From: pending, To: doing},
				{Name: "close", From: pending, To: done},
				{Name: "cancel", From: doing, To: pending},
				{Name: "finish", From: doing, To: done},
				{Name: "archive", From: done, To: archived},
			})
	})

	Describe("FindState", func() {
		It("should find declared states only", func() {
			s, found := stateMachine.FindState("DONE")
			Expect(found).To(BeTrue())
			Expect(s).To(Equal(done))

			_, found = stateMachine.FindState("UNKNOWN")
			Expect(found).To(BeFalse())
		})
	})

	Describe("AvailableTransitions", func() {
		It("should return availableTransitions as expected", func() {
			Ω(stateMachine.AvailableTransitions("PENDING", "")).Should(Equal([]state.Transition{
				{Name: "begin", From: pending, To: doing},
				{Name: "close", From: pending, To: done},
			}))
			Ω(stateMachine.AvailableTransitions("DOING", "DONE")).Should(Equal([]state.Transition{
				{Name: "finish", From: doing, To: done},
			}))
			Ω(stateMachine.AvailableTransitions("", "PENDING")).Should(Equal([]state.Transition{
				{Name: "cancel", From: doing, To: pending},
			}))
			Ω(len(stateMachine.AvailableTransitions("UNKNOWN", ""))).Should(Equal(0))
		})
	})

	Describe("Next", func() {
		It("should return the single outgoing transition", func() {
			t, ok := stateMachine.Next("DONE")
			Expect(ok).To(BeTrue())
			Expect(t).To(Equal(state.Transition{Name: "archive", From: done, To: archived}))
		})

		It("should return nothing for branching, terminal or unknown states", func() {
			_, ok := stateMachine.Next("PENDING")
			Expect(ok).To(BeFalse())
			_, ok = stateMachine.Next("ARCHIVED")
			Expect(ok).To(BeFalse())
			_, ok = stateMachine.Next("UNKNOWN")
			Expect(ok).To(BeFalse())
			_, ok = stateMachine.Next("")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("IsTerminal", func() {
		It("should report declared states without outgoing transitions", func() {
			Expect(stateMachine.IsTerminal("ARCHIVED")).To(BeTrue())
			Expect(stateMachine.IsTerminal("DONE")).To(BeFalse())
			Expect(stateMachine.IsTerminal("UNKNOWN")).To(BeFalse())
		})
	})
})

package domain

import "fmt"

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionAccept   Action = "accept"
	ActionCancel   Action = "cancel"
	ActionScore    Action = "score"
	ActionComplete Action = "complete"
)

// TransitionError reports an action that is not legal from the current status.
type TransitionError struct {
	Entity string
	From   string
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Action, e.Entity, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// transitions enumerates legal (status, action) -> status pairs of one entity.
type transitions[S ~string] map[S]map[Action]S

func (t transitions[S]) next(entity string, from S, action Action) (S, error) {
	if to, ok := t[from][action]; ok {
		return to, nil
	}
	return from, &TransitionError{Entity: entity, From: string(from), Action: action}
}

var depositTransitions = transitions[DepositStatus]{
	DepositPending: {
		ActionApprove: DepositApproved,
		ActionReject:  DepositRejected,
	},
}

var withdrawalTransitions = transitions[WithdrawalStatus]{
	WithdrawalPending: {
		ActionApprove: WithdrawalApproved,
		ActionReject:  WithdrawalRejected,
	},
}

var challengeTransitions = transitions[ChallengeStatus]{
	ChallengeOpen: {
		ActionAccept: ChallengeAccepted,
		ActionCancel: ChallengeCancelled,
	},
	ChallengeAccepted: {
		ActionScore:    ChallengeInProgress,
		ActionComplete: ChallengeCompleted,
	},
	ChallengeInProgress: {
		ActionScore:    ChallengeInProgress,
		ActionComplete: ChallengeCompleted,
	},
}

func (d *Deposit) Apply(action Action) error {
	next, err := depositTransitions.next("deposit", d.Status, action)
	if err != nil {
		return err
	}
	d.Status = next
	return nil
}

func (w *Withdrawal) Apply(action Action) error {
	next, err := withdrawalTransitions.next("withdrawal", w.Status, action)
	if err != nil {
		return err
	}
	w.Status = next
	return nil
}

func (c *Challenge) Apply(action Action) error {
	next, err := challengeTransitions.next("challenge", c.Status, action)
	if err != nil {
		return err
	}
	c.Status = next
	return nil
}

// Can reports whether action is legal for the challenge right now.
func (c *Challenge) Can(action Action) bool {
	_, ok := challengeTransitions[c.Status][action]
	return ok
}

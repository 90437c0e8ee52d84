package lifecycle

import (
	"errors"
	"fmt"

	"github.com/ntc490/mls3/pkg/core/model"
)

// TransitionError reports a trigger that is not permitted from the unit's
// current state, or a failed guard condition. The unit is left unchanged.
type TransitionError struct {
	UnitID  string
	State   model.State
	Trigger Trigger
	Reason  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s unit %s in state %s: %s", e.Trigger, e.UnitID, e.State, e.Reason)
}

// IsTransitionError reports whether err is a rejected lifecycle transition
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

package fleet

import "fmt"

// FatalError reports a workflow step whose failure leaves the device in
// an unknown state. Such failures usually mean the firmware does not
// speak the expected AT dialect, and the fleet stops on them.
type FatalError struct {
	// Step names the workflow step, for example "connect MQTT".
	Step string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

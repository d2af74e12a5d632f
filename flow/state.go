package flow

type State int

const (
	STATE_IDLE State = iota
	STATE_FORM_VALIDATED
	STATE_REGISTRATION_CREATED
	STATE_ORDER_REQUESTED
	STATE_WIDGET_OPEN
	STATE_VERIFYING
	STATE_DONE
	STATE_FAILED
	STATE_CANCELLED
)

func (s State) String() string {
	switch s {
	case STATE_IDLE:
		return "IDLE"
	case STATE_FORM_VALIDATED:
		return "FORM_VALIDATED"
	case STATE_REGISTRATION_CREATED:
		return "REGISTRATION_CREATED"
	case STATE_ORDER_REQUESTED:
		return "ORDER_REQUESTED"
	case STATE_WIDGET_OPEN:
		return "WIDGET_OPEN"
	case STATE_VERIFYING:
		return "VERIFYING"
	case STATE_DONE:
		return "DONE"
	case STATE_FAILED:
		return "FAILED"
	case STATE_CANCELLED:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

package checkout

// Status tracks one checkout attempt through payment dispatch.
type Status string

const (
	StatusNone           Status = "NO_PAYMENT_SELECTED"
	StatusModeSelected   Status = "PAYMENT_MODE_SELECTED"
	StatusSessionCreated Status = "PAYMENT_SESSION_CREATED"
	StatusSucceeded      Status = "PAYMENT_SUCCEEDED"
	StatusFailed         Status = "PAYMENT_FAILED"
	StatusDismissed      Status = "PAYMENT_DISMISSED"
	StatusOrderPlaced    Status = "ORDER_PLACED"
)

var transitions = map[Status][]Status{
	StatusNone:         {StatusModeSelected},
	StatusModeSelected: {StatusSessionCreated, StatusOrderPlaced, StatusModeSelected},
	// COD skips session creation and goes straight to ORDER_PLACED.
	StatusSessionCreated: {StatusSucceeded, StatusFailed, StatusDismissed},
	StatusSucceeded:      {StatusOrderPlaced, StatusFailed},
	// Failure and dismissal are not terminal: the user may re-submit.
	StatusFailed:    {StatusModeSelected},
	StatusDismissed: {StatusModeSelected},
}

func CanTransitionTo(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusOrderPlaced
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

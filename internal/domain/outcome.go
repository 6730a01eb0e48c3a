package domain

// Outcome distinguishes how an operation concluded, so callers don't have to
// infer "it degraded" from a uniform success value.
type Outcome int

const (
	// OutcomeDelivered means the operation fully succeeded.
	OutcomeDelivered Outcome = iota
	// OutcomeDegraded means a collaborator failed and a best-effort
	// substitute was used (e.g. fallback reply, skipped persistence).
	OutcomeDegraded
	// OutcomeRejected means the input failed validation and nothing
	// observable happened.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeRejected:
		return "rejected"
	}
	return "unknown"
}

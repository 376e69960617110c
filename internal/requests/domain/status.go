package domain

// Status is the lifecycle state of a service request.
type Status string

const (
	// StatusPending covers searching for an employee and the employee reviewing the request.
	StatusPending Status = "pending"
	StatusQuoted  Status = "quoted"
	// StatusRevising means the first decline was received and a revised quote is on its way.
	StatusRevising   Status = "revising"
	StatusRevised    Status = "revised"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	// StatusDeclined means no employee is left to serve the request.
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusQuoted, StatusDeclined, StatusCancelled},
	StatusQuoted:     {StatusRevising, StatusAccepted, StatusCancelled},
	StatusRevising:   {StatusRevised, StatusCancelled},
	StatusRevised:    {StatusPending, StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a request may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Finished reports whether s is terminal.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusDeclined || s == StatusCancelled
}

// AwaitingResponse reports whether the user may accept or decline a quote.
func (s Status) AwaitingResponse() bool {
	return s == StatusQuoted || s == StatusRevised
}

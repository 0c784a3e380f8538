package dto

// SubmitEventRequest is the body of POST /submit-event, the guest form for
// people without an account.
type SubmitEventRequest struct {
	EventName        string `json:"event_name"`
	SubmitterName    string `json:"submitter_name"`
	SubmitterEmail   string `json:"submitter_email,omitempty"`
	EventLink        string `json:"event_link,omitempty"`
	EventDescription string `json:"event_description"`
}

// SubmitEventResponse acknowledges a queued submission.
type SubmitEventResponse struct {
	Message string `json:"message"`
}

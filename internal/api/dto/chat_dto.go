package dto

// ChatRequest payload.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Org     string `json:"org"`
}

// ChatResponse is the assistant's reply. TicketID is null unless a ticket
// was created.
type ChatResponse struct {
	Response string  `json:"response"`
	TicketID *string `json:"ticket_id"`
	Intent   string  `json:"intent"`
}

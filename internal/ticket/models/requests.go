package models

// CreateTicketRequest is the client-facing submission payload.
type CreateTicketRequest struct {
	ClientFirstName string `json:"client_first_name"`
	ClientLastName  string `json:"client_last_name"`
	ClientLastName2 string `json:"client_last_name_2"`
	ServiceID       string `json:"service_id"`
	BranchID        string `json:"branch_id"`
}

package types

// Regulation is one security regulation document record.
type Regulation struct {
	ID           string `json:"regulation_id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	Assignee     string `json:"assignee"`
	TeamName     string `json:"team_name"`
	DueDate      string `json:"due_date"`
	CreatedDate  string `json:"created_date"`
	Status       string `json:"status"`
}

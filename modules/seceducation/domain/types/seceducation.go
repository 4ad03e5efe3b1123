package types

import "github.com/hanbitworks/backoffice/pkg/localid"

// SecEducation is one security education record.
type SecEducation struct {
	ID             string `json:"sec_education_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	ExecutionDate  string `json:"execution_date"`
	Location       string `json:"location"`
	EducationType  string `json:"education_type"`
	TargetAudience string `json:"target_audience"`
	Status         string `json:"status"`
}

// AttendeeItem is one roster entry of a security education.
type AttendeeItem struct {
	ID             localid.ID `json:"attendee_id"`
	SecEducationID string     `json:"sec_education_id"`
	Name           string     `json:"name"`
	Department     string     `json:"department"`
	Completed      string     `json:"completed"`
}

func (i AttendeeItem) ItemID() localid.ID { return i.ID }

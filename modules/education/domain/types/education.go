package types

import "github.com/hanbitworks/backoffice/pkg/localid"

// Education is one IT education record. Scalar fields stay strings end
// to end: the dialog edits them as strings and the store renders dates
// and enums back to text.
type Education struct {
	ID            string `json:"education_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	ExecutionDate string `json:"execution_date"`
	Location      string `json:"location"`
	EducationType string `json:"education_type"`
	Instructor    string `json:"instructor"`
	TeamName      string `json:"team_name"`
	Status        string `json:"status"`
}

// CurriculumItem is one ordered session of an education. OrderNo is
// display order, re-stamped by the editor on insert and delete.
type CurriculumItem struct {
	ID          localid.ID `json:"curriculum_id"`
	EducationID string     `json:"education_id"`
	OrderNo     int        `json:"order_no"`
	Title       string     `json:"title"`
	Instructor  string     `json:"instructor"`
	Minutes     string     `json:"minutes"`
}

func (i CurriculumItem) ItemID() localid.ID { return i.ID }

// AttendeeItem is one roster entry of an education.
type AttendeeItem struct {
	ID          localid.ID `json:"attendee_id"`
	EducationID string     `json:"education_id"`
	Name        string     `json:"name"`
	Department  string     `json:"department"`
	Completed   string     `json:"completed"`
}

func (i AttendeeItem) ItemID() localid.ID { return i.ID }

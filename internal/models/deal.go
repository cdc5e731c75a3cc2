package models

import "time"

// Stage is a pipeline column identifier.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosed      Stage = "closed"
)

// Valid reports whether s is one of the five pipeline stages.
func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageQualified, StageProposal, StageNegotiation, StageClosed:
		return true
	}
	return false
}

type DealType string

const (
	DealTypeCompany    DealType = "company"
	DealTypeIndividual DealType = "individual"
)

func (t DealType) Valid() bool {
	return t == DealTypeCompany || t == DealTypeIndividual
}

// Deal is a sales opportunity on the pipeline board.
type Deal struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Customer          string    `json:"customer"`
	Value             float64   `json:"value"`
	Stage             Stage     `json:"stage"`
	Probability       int       `json:"probability"`
	ExpectedCloseDate Date      `json:"expected_close_date"`
	Type              DealType  `json:"type"`
	Contact           string    `json:"contact"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DealFilter narrows a deal listing. Search matches title, customer or contact.
type DealFilter struct {
	Search string
	Stage  Stage
	Type   DealType
}

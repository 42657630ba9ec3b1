package catalog

import "fmt"

// Severity classifies an issue by blast radius.
type Severity string

const (
	// SeverityError marks a finding that dropped data from the catalog.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding; no data was dropped.
	SeverityWarning Severity = "warning"
)

// Code identifies the class of a load issue.
type Code string

const (
	CodeMalformedSet      Code = "MalformedSet"
	CodeSetIDMismatch     Code = "SetIdMismatch"
	CodeCardCountMismatch Code = "CardCountMismatch"
	CodeInvalidCard       Code = "InvalidCard"
	CodeDuplicateCardID   Code = "DuplicateCardId"
	CodeReleaseDate       Code = "ReleaseDate"
	CodeCardLint          Code = "CardLint"
	CodeOrphanFile        Code = "OrphanFile"
)

// Issue is a non-fatal finding recorded during a load. Fatal index-level
// problems are returned as errors instead, never as issues.
type Issue struct {
	Code      Code     `json:"code"`
	Severity  Severity `json:"severity"`
	SetID     string   `json:"set_id,omitempty"`
	CardIndex int      `json:"card_index"`
	Message   string   `json:"message"`
}

// NoCard is the CardIndex value for issues that are not about a specific
// card entry.
const NoCard = -1

func (i Issue) String() string {
	loc := i.SetID
	if loc == "" {
		loc = "repository"
	}
	if i.CardIndex != NoCard {
		loc = fmt.Sprintf("%s[%d]", loc, i.CardIndex)
	}
	return fmt.Sprintf("%s %s: %s (%s)", i.Severity, loc, i.Message, i.Code)
}

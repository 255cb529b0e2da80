// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Deal, Lead, SalesRep, and Activity structs plus their enums
package models

import (
	"fmt"
	"time"
)

type Contact struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Deal struct {
	ID                ID         `json:"id"`
	Title             string     `json:"title"`
	ContactID         ID         `json:"contact_id"`
	SalesRepID        *ID        `json:"sales_rep_id,omitempty"`
	Stage             Stage      `json:"stage"`
	Value             float64    `json:"value"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Lead has no timestamps; leads are tracked before they become contacts.
type Lead struct {
	ID      ID         `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email,omitempty"`
	Phone   string     `json:"phone,omitempty"`
	Company string     `json:"company,omitempty"`
	Status  LeadStatus `json:"status"`
	Source  string     `json:"source,omitempty"`
	Value   float64    `json:"value"`
	Tags    []string   `json:"tags"`
	Notes   string     `json:"notes,omitempty"`
}

type SalesRep struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Activity is an append-only feed entry. EntityID is a weak reference and
// may point at a record that no longer exists.
type Activity struct {
	ID          ID           `json:"id"`
	Type        ActivityType `json:"type"`
	EntityType  EntityType   `json:"entity_type"`
	EntityID    ID           `json:"entity_id"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}

func (c Contact) Identifier() ID  { return c.ID }
func (d Deal) Identifier() ID     { return d.ID }
func (l Lead) Identifier() ID     { return l.ID }
func (s SalesRep) Identifier() ID { return s.ID }
func (a Activity) Identifier() ID { return a.ID }

// Stage is a deal's position in the pipeline.
type Stage string

const (
	StageLead        Stage = "Lead"
	StageQualified   Stage = "Qualified"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageClosed      Stage = "Closed"
)

// Stages returns the pipeline stages in board order.
func Stages() []Stage {
	return []Stage{StageLead, StageQualified, StageProposal, StageNegotiation, StageClosed}
}

func (s Stage) Valid() bool {
	for _, stage := range Stages() {
		if s == stage {
			return true
		}
	}
	return false
}

// ParseStage matches a stage name exactly; the board and the MCP tools
// both pass the canonical capitalised form.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.Valid() {
		return "", fmt.Errorf("invalid stage: %s (valid: Lead, Qualified, Proposal, Negotiation, Closed)", s)
	}
	return stage, nil
}

// LeadStatus constants.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost:
		return true
	}
	return false
}

// EntityType names the collection an activity refers to.
type EntityType string

const (
	EntityContact EntityType = "contact"
	EntityDeal    EntityType = "deal"
	EntityLead    EntityType = "lead"
)

// ActivityType constants.
type ActivityType string

const (
	ActivityContactCreated   ActivityType = "contact_created"
	ActivityContactUpdated   ActivityType = "contact_updated"
	ActivityDealCreated      ActivityType = "deal_created"
	ActivityDealUpdated      ActivityType = "deal_updated"
	ActivityDealStageUpdated ActivityType = "deal_stage_updated"
	ActivityLeadCreated      ActivityType = "lead_created"
	ActivityLeadUpdated      ActivityType = "lead_updated"
	ActivityCallLogged       ActivityType = "call_logged"
	ActivityEmailSent        ActivityType = "email_sent"
	ActivityMeetingScheduled ActivityType = "meeting_scheduled"
)

// ABOUTME: Partial updates for contacts, deals, and leads
// ABOUTME: Non-nil fields overwrite the stored record, nil fields are preserved
package models

import (
	"strings"
	"time"
)

type ContactPatch struct {
	Name    *string   `json:"name,omitempty"`
	Email   *string   `json:"email,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
	Company *string   `json:"company,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
}

// Apply merges the patch over c. Identifier and timestamps are left to the caller.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Tags != nil {
		c.Tags = cloneStrings(*p.Tags)
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}

type DealPatch struct {
	Title             *string    `json:"title,omitempty"`
	ContactID         *ID        `json:"contact_id,omitempty"`
	SalesRepID        *ID        `json:"sales_rep_id,omitempty"`
	ClearSalesRep     bool       `json:"clear_sales_rep,omitempty"`
	Stage             *Stage     `json:"stage,omitempty"`
	Value             *float64   `json:"value,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

func (p DealPatch) Apply(d *Deal) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.ContactID != nil {
		d.ContactID = *p.ContactID
	}
	switch {
	case p.ClearSalesRep:
		d.SalesRepID = nil
	case p.SalesRepID != nil:
		rep := *p.SalesRepID
		d.SalesRepID = &rep
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.ExpectedCloseDate != nil {
		closeDate := *p.ExpectedCloseDate
		d.ExpectedCloseDate = &closeDate
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}

type LeadPatch struct {
	Name    *string     `json:"name,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Phone   *string     `json:"phone,omitempty"`
	Company *string     `json:"company,omitempty"`
	Status  *LeadStatus `json:"status,omitempty"`
	Source  *string     `json:"source,omitempty"`
	Value   *float64    `json:"value,omitempty"`
	Tags    *[]string   `json:"tags,omitempty"`
	Notes   *string     `json:"notes,omitempty"`
}

func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.Tags != nil {
		l.Tags = cloneStrings(*p.Tags)
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
}

// Clone returns a copy that shares no slices or pointers with c.
func (c Contact) Clone() Contact {
	c.Tags = cloneStrings(c.Tags)
	return c
}

func (d Deal) Clone() Deal {
	if d.SalesRepID != nil {
		rep := *d.SalesRepID
		d.SalesRepID = &rep
	}
	if d.ExpectedCloseDate != nil {
		closeDate := *d.ExpectedCloseDate
		d.ExpectedCloseDate = &closeDate
	}
	return d
}

func (l Lead) Clone() Lead {
	l.Tags = cloneStrings(l.Tags)
	return l
}

func (s SalesRep) Clone() SalesRep { return s }
func (a Activity) Clone() Activity { return a }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// SplitTags turns "a, b,,c" into [a b c], the way the forms collect tags.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

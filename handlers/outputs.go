// ABOUTME: Wire shapes returned by the MCP tools
// ABOUTME: Timestamps are RFC3339 strings so output schemas stay plain JSON types
package handlers

import (
	"fmt"
	"time"

	"github.com/harperreed/nexus/models"
)

type ContactOutput struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Company   string   `json:"company,omitempty"`
	Tags      []string `json:"tags"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type DealOutput struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	ContactID         int     `json:"contact_id"`
	SalesRepID        *int    `json:"sales_rep_id,omitempty"`
	Stage             string  `json:"stage"`
	Value             float64 `json:"value"`
	ExpectedCloseDate *string `json:"expected_close_date,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type LeadOutput struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone,omitempty"`
	Company string   `json:"company"`
	Status  string   `json:"status"`
	Source  string   `json:"source,omitempty"`
	Value   float64  `json:"value"`
	Tags    []string `json:"tags"`
	Notes   string   `json:"notes,omitempty"`
}

type SalesRepOutput struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type ActivityOutput struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	EntityType  string `json:"entity_type"`
	EntityID    int    `json:"entity_id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

type DeleteOutput struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func contactToOutput(c *models.Contact) ContactOutput {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return ContactOutput{
		ID:        int(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Tags:      tags,
		Notes:     c.Notes,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func dealToOutput(d *models.Deal) DealOutput {
	out := DealOutput{
		ID:        int(d.ID),
		Title:     d.Title,
		ContactID: int(d.ContactID),
		Stage:     string(d.Stage),
		Value:     d.Value,
		Notes:     d.Notes,
		CreatedAt: formatTime(d.CreatedAt),
		UpdatedAt: formatTime(d.UpdatedAt),
	}
	if d.SalesRepID != nil {
		rep := int(*d.SalesRepID)
		out.SalesRepID = &rep
	}
	if d.ExpectedCloseDate != nil {
		date := d.ExpectedCloseDate.Format("2006-01-02")
		out.ExpectedCloseDate = &date
	}
	return out
}

func leadToOutput(l *models.Lead) LeadOutput {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	return LeadOutput{
		ID:      int(l.ID),
		Name:    l.Name,
		Email:   l.Email,
		Phone:   l.Phone,
		Company: l.Company,
		Status:  string(l.Status),
		Source:  l.Source,
		Value:   l.Value,
		Tags:    tags,
		Notes:   l.Notes,
	}
}

func activityToOutput(a *models.Activity) ActivityOutput {
	return ActivityOutput{
		ID:          int(a.ID),
		Type:        string(a.Type),
		EntityType:  string(a.EntityType),
		EntityID:    int(a.EntityID),
		Description: a.Description,
		Timestamp:   formatTime(a.Timestamp),
	}
}

// parseDate accepts YYYY-MM-DD or RFC3339; empty means no date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

func requireID(id models.ID) (models.ID, error) {
	if id <= 0 {
		return 0, fmt.Errorf("id is required")
	}
	return id, nil
}

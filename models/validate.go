// ABOUTME: Form-level validation for records entered by a person or an agent
// ABOUTME: Services never call these; the CLI and MCP handlers check input first
package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationErrors maps a field name to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// orNil keeps call sites from returning a typed nil inside an error interface.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (c Contact) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(c.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(c.Email) {
		errs["email"] = "Invalid email format"
	}
	return errs.orNil()
}

func (d Deal) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	}
	if d.ContactID == 0 {
		errs["contact_id"] = "Contact is required"
	}
	if d.Value == 0 {
		errs["value"] = "Value is required"
	} else if d.Value < 0 {
		errs["value"] = "Value must not be negative"
	}
	if d.Stage != "" && !d.Stage.Valid() {
		errs["stage"] = fmt.Sprintf("Unknown stage %q", d.Stage)
	}
	return errs.orNil()
}

func (l Lead) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(l.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(l.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(l.Email) {
		errs["email"] = "Invalid email format"
	}
	if strings.TrimSpace(l.Company) == "" {
		errs["company"] = "Company is required"
	}
	if l.Value < 0 {
		errs["value"] = "Value must not be negative"
	}
	if l.Status != "" && !l.Status.Valid() {
		errs["status"] = fmt.Sprintf("Unknown status %q", l.Status)
	}
	return errs.orNil()
}

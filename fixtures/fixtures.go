// ABOUTME: Static seed records embedded into the binary
// ABOUTME: Every accessor decodes a fresh copy so callers can never mutate the templates
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/harperreed/nexus/models"
)

//go:embed data/*.json
var dataFS embed.FS

func Contacts() ([]models.Contact, error)   { return decode[models.Contact]("contacts.json") }
func Deals() ([]models.Deal, error)         { return decode[models.Deal]("deals.json") }
func Leads() ([]models.Lead, error)         { return decode[models.Lead]("leads.json") }
func SalesReps() ([]models.SalesRep, error) { return decode[models.SalesRep]("sales_reps.json") }
func Activities() ([]models.Activity, error) {
	return decode[models.Activity]("activities.json")
}

func decode[T any](name string) ([]T, error) {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return records, nil
}

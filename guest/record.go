// Package guest holds the guest registry: the durable roster of event
// guests and their approval status. All mutation paths funnel through
// Service, which serializes mutate+persist against a Store.
package guest

import (
	"regexp"
	"strings"
)

// ManualIDPrefix marks operator-entered guests that have no Telegram identity.
const ManualIDPrefix = "manual_"

var phoneRe = regexp.MustCompile(`^\+[0-9]+$`)

// Record is a single roster entry. Approved=false means the entry is a
// pending registration awaiting the approval handshake.
type Record struct {
	ID           string `json:"-" db:"id"`
	Name         string `json:"name" db:"name"`
	Organization string `json:"organization" db:"organization"`
	Phone        string `json:"phone" db:"phone"`
	Approved     bool   `json:"approved" db:"approved"`
}

// Validate checks the field invariants shared by both workflows.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrInvalidRecord
	}
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Organization) == "" {
		return ErrInvalidRecord
	}
	if !ValidPhone(r.Phone) {
		return ErrInvalidRecord
	}
	return nil
}

// ValidPhone reports whether s is a leading plus followed by at least one digit.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsManualID reports whether id was generated for an operator-entered guest.
func IsManualID(id string) bool {
	return strings.HasPrefix(id, ManualIDPrefix)
}

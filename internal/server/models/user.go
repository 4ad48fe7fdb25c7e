package models

import (
	"strings"
	"time"
)

// User is an identity record. Users are provisioned out of band (seed data or
// an admin tool); this service only ever reads them.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	// Roles is a comma-separated role list, kept flat for schema fidelity
	// with the rest of the platform. Split with RoleList.
	Roles string

	CreatedAt time.Time
}

// RoleList splits the flat role string on commas, trimming whitespace and
// dropping empty segments.
func (u *User) RoleList() []string {
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

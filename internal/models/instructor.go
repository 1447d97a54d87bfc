package models

import "strings"

// Collaborator roles.
const (
	RoleInstructor = "Instrutor"
	RoleAnalyst    = "Analista"
	RoleAssistant  = "Assistente"
)

// AllowedRoles enumerates the valid collaborator categories.
var AllowedRoles = []string{RoleInstructor, RoleAnalyst, RoleAssistant}

// Instructor represents a collaborator (instructor, analyst or assistant).
type Instructor struct {
	ID             string   `json:"id"`
	Name           string   `json:"nome"`
	ShortName      string   `json:"nome_sobrenome"`
	Email          string   `json:"email"`
	Phone          string   `json:"telefone"`
	Role           string   `json:"role"`
	Specialties    []string `json:"especialidades,omitempty"`
	MaxWeeklyHours *float64 `json:"max_horas_semana,omitempty"`
	Active         bool     `json:"ativo"`
}

// ValidRole reports whether a role is one of the enumerated categories.
func ValidRole(role string) bool {
	for _, allowed := range AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// Normalize derives the short name (first + last token) when absent and
// defaults a blank role to Instrutor.
func (i *Instructor) Normalize() {
	if strings.TrimSpace(i.Role) == "" {
		i.Role = RoleInstructor
	}
	if strings.TrimSpace(i.ShortName) != "" {
		i.ShortName = strings.TrimSpace(i.ShortName)
		return
	}
	parts := strings.Fields(i.Name)
	switch len(parts) {
	case 0:
	case 1:
		i.ShortName = parts[0]
	default:
		i.ShortName = parts[0] + " " + parts[len(parts)-1]
	}
}

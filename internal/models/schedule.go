package models

import "strings"

// ChronogramDay maps one class day to a curricular unit and optionally the
// instructor covering it. Presentation state only: chronogram edits never
// touch conflict-relevant fields.
type ChronogramDay struct {
	UnitID       string `json:"unidade_id"`
	InstructorID string `json:"instrutor_id,omitempty"`
}

// Schedule is a class offering (oferta): a course placed in a room and shift
// over a date range with a weekday pattern and an instructor team.
type Schedule struct {
	ID                 string                   `json:"id"`
	Year               int                      `json:"ano"`
	Month              int                      `json:"mes"`
	CourseID           string                   `json:"curso_id"`
	InstructorID       string                   `json:"instrutor_id"`
	InstructorIDs      []string                 `json:"instrutor_ids"`
	AnalystID          string                   `json:"analista_id"`
	AssistantID        string                   `json:"assistente_id,omitempty"`
	RoomID             string                   `json:"sala_id"`
	Floor              string                   `json:"pavimento"`
	StudentCount       int                      `json:"qtd_alunos"`
	ShiftID            string                   `json:"turno_id"`
	ResourceType       string                   `json:"recurso_tipo,omitempty"`
	PartnershipProgram string                   `json:"programa_parceria,omitempty"`
	StartDate          string                   `json:"data_inicio"`
	EndDate            string                   `json:"data_fim"`
	TotalHours         float64                  `json:"ch_total"`
	ClassGroup         string                   `json:"turma"`
	StartTime          string                   `json:"hora_inicio"`
	EndTime            string                   `json:"hora_fim"`
	ExecutionDays      []string                 `json:"dias_execucao"`
	Notes              string                   `json:"observacoes,omitempty"`
	ChronogramDays     map[string]ChronogramDay `json:"cronograma_dias,omitempty"`
	ChronogramNotes    string                   `json:"cronograma_observacoes,omitempty"`
}

// AllInstructorIDs returns the canonical instructor set: the full list plus
// the legacy primary field, deduplicated.
func (s *Schedule) AllInstructorIDs() []string {
	return NormalizeInstructorIDs(s.InstructorIDs, s.InstructorID)
}

// NormalizeInstructorIDs trims and deduplicates an instructor-id list,
// falling back to the single legacy id when the list is empty.
func NormalizeInstructorIDs(ids []string, fallback string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := make(map[string]struct{}, len(ids)+1)
	add := func(raw string) {
		value := strings.TrimSpace(raw)
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	for _, id := range ids {
		add(id)
	}
	if len(out) == 0 {
		add(fallback)
	}
	return out
}

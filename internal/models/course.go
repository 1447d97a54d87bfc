package models

// Course represents a vocational course offering template.
type Course struct {
	ID         string           `json:"id"`
	Name       string           `json:"nome"`
	CourseType string           `json:"tipo_curso"`
	Level      string           `json:"nivel,omitempty"`
	TotalHours float64          `json:"carga_horaria_total"`
	Units      []CurricularUnit `json:"curricular_units,omitempty"`
	Active     bool             `json:"ativo"`
}

// Normalize keeps the legacy nivel field and tipo_curso in agreement.
func (c *Course) Normalize() {
	if c.CourseType == "" && c.Level != "" {
		c.CourseType = c.Level
	}
	if c.CourseType != "" && c.Level == "" {
		c.Level = c.CourseType
	}
}

// CurricularUnit is a course component. It may live embedded in a course or
// as a standalone record referencing its owning course.
type CurricularUnit struct {
	ID       string  `json:"id,omitempty"`
	CourseID string  `json:"curso_id,omitempty"`
	Name     string  `json:"nome"`
	Hours    float64 `json:"carga_horaria"`
	Module   string  `json:"modulo,omitempty"`
}

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Availability period granularities, broadest last in fallback order.
const (
	PeriodMonth    = "month"
	PeriodQuarter  = "quarter"
	PeriodSemester = "semester"
	PeriodYear     = "year"
)

// YearPeriodValue is the fixed period_value for year-level records.
const YearPeriodValue = "A"

// Share statuses for the self-service availability flow.
const (
	ShareStatusNotSent  = "nao_enviado"
	ShareStatusSent     = "enviado"
	ShareStatusAnswered = "respondido"
)

// AvailabilityRecord stores an instructor's declared "weekday|shift" slots
// for a period of a year.
type AvailabilityRecord struct {
	ID             string   `json:"id"`
	InstructorID   string   `json:"instructor_id"`
	Year           int      `json:"year"`
	PeriodType     string   `json:"period_type"`
	PeriodValue    string   `json:"period_value"`
	Slots          []string `json:"slots"`
	Notes          string   `json:"notes,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
	UpdatedBy      string   `json:"updated_by,omitempty"`
	ShareToken     string   `json:"share_token,omitempty"`
	ShareExpiresAt string   `json:"share_expires_at,omitempty"`
	ShareStatus    string   `json:"share_status,omitempty"`
}

// SlotSet returns the declared slots as a set of canonical "DIA|turno" keys.
// The weekday half is canonicalised; shift ids are kept verbatim.
func (r *AvailabilityRecord) SlotSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Slots))
	for _, slot := range r.Slots {
		day, shiftID, found := strings.Cut(strings.TrimSpace(slot), "|")
		if !found {
			continue
		}
		token := CanonicalWeekday(day)
		shiftID = strings.TrimSpace(shiftID)
		if token == "" || shiftID == "" {
			continue
		}
		set[token+"|"+shiftID] = struct{}{}
	}
	return set
}

// AvailabilityKey is the structured composite key of an availability record.
type AvailabilityKey struct {
	InstructorID string
	Year         int
	PeriodType   string
	PeriodValue  string
}

// String renders the persisted composite id: instructor|year|type|value.
func (k AvailabilityKey) String() string {
	return fmt.Sprintf("%s|%d|%s|%s", strings.TrimSpace(k.InstructorID), k.Year, k.PeriodType, k.PeriodValue)
}

// NormalizePeriod validates and canonicalises a period type/value pair:
// month 1-12, quarter 1-4, semester 1-2, year always "A".
func NormalizePeriod(periodType, periodValue string) (string, string, error) {
	pType := strings.ToLower(strings.TrimSpace(periodType))
	raw := strings.TrimSpace(periodValue)
	switch pType {
	case PeriodMonth:
		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 || num > 12 {
			return "", "", fmt.Errorf("mês inválido")
		}
		return pType, strconv.Itoa(num), nil
	case PeriodQuarter:
		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 || num > 4 {
			return "", "", fmt.Errorf("trimestre inválido")
		}
		return pType, strconv.Itoa(num), nil
	case PeriodSemester:
		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 || num > 2 {
			return "", "", fmt.Errorf("semestre inválido")
		}
		return pType, strconv.Itoa(num), nil
	case PeriodYear:
		return pType, YearPeriodValue, nil
	default:
		return "", "", fmt.Errorf("tipo de período inválido")
	}
}

package models

import "fmt"

// Shift is a named daily time window (turno).
type Shift struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	StartTime string `json:"horario_inicio"`
	EndTime   string `json:"horario_fim"`
	HoursDay  string `json:"hs_dia,omitempty"`
	Active    bool   `json:"ativo"`
}

// DurationHours returns the shift length in hours, derived from the HH:MM
// window. The end must be strictly after the start.
func (s *Shift) DurationHours() (float64, error) {
	return ClockRangeHours(s.StartTime, s.EndTime)
}

// Normalize derives hs_dia ("HH:MM") from the window when not stored.
func (s *Shift) Normalize() error {
	startMin, err := ParseClock(s.StartTime)
	if err != nil {
		return err
	}
	endMin, err := ParseClock(s.EndTime)
	if err != nil {
		return err
	}
	delta := endMin - startMin
	if delta <= 0 {
		return fmt.Errorf("horário fim deve ser maior que horário início")
	}
	s.HoursDay = fmt.Sprintf("%02d:%02d", delta/60, delta%60)
	return nil
}

// HoursPerDay converts hs_dia into a decimal hour count, falling back to the
// HH:MM window when hs_dia is absent.
func (s *Shift) HoursPerDay() (float64, error) {
	if s.HoursDay != "" {
		minutes, err := ParseClock(s.HoursDay)
		if err == nil && minutes > 0 {
			return float64(minutes) / 60, nil
		}
	}
	return s.DurationHours()
}

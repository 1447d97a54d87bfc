package models

// DefaultFloor is assigned to rooms saved without a pavimento.
const DefaultFloor = "Térreo"

// Room represents a physical classroom or lab.
type Room struct {
	ID       string   `json:"id"`
	Name     string   `json:"nome"`
	Abbrev   string   `json:"sigla,omitempty"`
	Capacity int      `json:"capacidade"`
	Floor    string   `json:"pavimento"`
	Features []string `json:"recursos,omitempty"`
	Active   bool     `json:"ativo"`
}

// Normalize applies the floor default.
func (r *Room) Normalize() {
	if r.Floor == "" {
		r.Floor = DefaultFloor
	}
}

package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var offerIDPattern = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d{4})\s*$`)

// ClassGroupPattern validates the turma label (NN.28.NNNN).
var ClassGroupPattern = regexp.MustCompile(`^\d{2}\.28\.\d{4}$`)

// OfferID is the structured form of a schedule id ("NN/YYYY"). The sequence
// restarts every year.
type OfferID struct {
	Seq  int
	Year int
}

// ParseOfferID parses an "NN/YYYY" id. Ill-formed ids return ok=false rather
// than an error so collection scans can skip legacy values.
func ParseOfferID(raw string) (OfferID, bool) {
	match := offerIDPattern.FindStringSubmatch(raw)
	if match == nil {
		return OfferID{}, false
	}
	seq, err := strconv.Atoi(match[1])
	if err != nil {
		return OfferID{}, false
	}
	year, err := strconv.Atoi(match[2])
	if err != nil {
		return OfferID{}, false
	}
	return OfferID{Seq: seq, Year: year}, true
}

// String renders the id, zero-padding the sequence to two digits below 100.
func (id OfferID) String() string {
	if id.Seq < 100 {
		return fmt.Sprintf("%02d/%d", id.Seq, id.Year)
	}
	return fmt.Sprintf("%d/%d", id.Seq, id.Year)
}

// NextOfferID returns the next sequential id for the given year, scanning
// existing ids and ignoring any that do not match the NN/YYYY shape.
func NextOfferID(existing []string, year int) OfferID {
	highest := 0
	for _, raw := range existing {
		id, ok := ParseOfferID(strings.TrimSpace(raw))
		if !ok || id.Year != year {
			continue
		}
		if id.Seq > highest {
			highest = id.Seq
		}
	}
	return OfferID{Seq: highest + 1, Year: year}
}

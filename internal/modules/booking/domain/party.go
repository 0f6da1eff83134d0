package domain

import (
	"strconv"
	"strings"
	"time"
)

// MaxOnlineParty is the largest party the wizard books directly.
const MaxOnlineParty = 8

// LargeParty is the sentinel for parties that must call the restaurant.
const LargeParty PartySelection = "9+"

// PartySelection is the party size picked in the wizard: "1".."8" or LargeParty.
type PartySelection string

// ParsePartySelection accepts "1".."8", "9+" and bare numbers above 8, which map to
// LargeParty.
func ParsePartySelection(raw string) (PartySelection, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == string(LargeParty) {
		return LargeParty, true
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return "", false
	}
	if n > MaxOnlineParty {
		return LargeParty, true
	}
	return PartySelection(strconv.Itoa(n)), true
}

func (p PartySelection) Valid() bool {
	if p == LargeParty {
		return true
	}
	n, err := strconv.Atoi(string(p))
	return err == nil && n >= 1 && n <= MaxOnlineParty
}

func (p PartySelection) Large() bool { return p == LargeParty }

// Size returns the numeric size for bookable selections.
func (p PartySelection) Size() (int, bool) {
	if !p.Valid() || p.Large() {
		return 0, false
	}
	n, _ := strconv.Atoi(string(p))
	return n, true
}

// Label renders "1 Guest", "4 Guests" or the call-ahead hint.
func (p PartySelection) Label() string {
	switch {
	case p.Large():
		return "9+ Guests (Call for availability)"
	case p == "1":
		return "1 Guest"
	default:
		return string(p) + " Guests"
	}
}

// PartyOptions lists the selections offered by the wizard.
func PartyOptions() []PartySelection {
	out := make([]PartySelection, 0, MaxOnlineParty+1)
	for i := 1; i <= MaxOnlineParty; i++ {
		out = append(out, PartySelection(strconv.Itoa(i)))
	}
	return append(out, LargeParty)
}

// DisplayDate renders day as "Today", "Tomorrow" or "Monday, October 20".
func DisplayDate(day, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, loc)
	ny, nm, nd := now.In(loc).Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)
	switch {
	case target.Equal(today):
		return "Today"
	case target.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return target.Format("Monday, January 2")
	}
}

// Package seat parses opaque seat identifier strings into structured
// descriptors. Seat codes follow the grammar E<digits>_<Letter><digits>
// optionally suffixed with _cat_<digits>, e.g. "E04_F06_cat_1" meaning
// event 4, section F, seat 06, category 1. Identifiers containing the
// literal token "vip" (any case) are VIP seats regardless of other
// structure. Parse is total: malformed input degrades through fallback
// tiers instead of failing.
package seat

import (
	"regexp"
	"strconv"
	"strings"
)

// Descriptor is the parsed structural representation of a seat
// identifier. It is derived on demand and never persisted.
type Descriptor struct {
	Event    string `json:"event"`
	Section  string `json:"section"`
	Seat     string `json:"seat"`
	Category string `json:"category"` // "VIP" or a numeric category such as "1"
}

var (
	vipRe      = regexp.MustCompile(`(?i)vip`)
	fullRe     = regexp.MustCompile(`E(\d+)_([A-Z])(\d+)_cat_(\d+)`)
	prefixRe   = regexp.MustCompile(`E(\d+)_([A-Z])(\d+)`)
	catTokenRe = regexp.MustCompile(`cat_(\d+)`)
	eventRe    = regexp.MustCompile(`E(\d+)`)
	sectionRe  = regexp.MustCompile(`_([A-Z])(\d+)`)
)

// Parse turns a seat identifier into a Descriptor. It never fails:
// each tier is more permissive than the last and the final tier fills
// in defaults for anything it cannot recover. The VIP substring check
// takes precedence over the numbered-category grammar.
func Parse(seatID string) Descriptor {
	// Tier 1: any identifier containing "vip" is a VIP seat. The
	// positional prefix is still extracted when present.
	if vipRe.MatchString(seatID) {
		d := Descriptor{Event: "1", Section: "A", Seat: "1", Category: "VIP"}
		if m := prefixRe.FindStringSubmatch(seatID); m != nil {
			d.Event = normalizeEvent(m[1])
			d.Section = m[2]
			d.Seat = m[3]
		}
		return d
	}

	// Tier 2: the exact grammar with a numbered category suffix.
	if m := fullRe.FindStringSubmatch(seatID); m != nil {
		return Descriptor{
			Event:    normalizeEvent(m[1]),
			Section:  m[2],
			Seat:     m[3],
			Category: m[4],
		}
	}

	// Tier 3: a cat_<n> token exists somewhere but the full grammar did
	// not match; recover the positional prefix independently.
	if m := catTokenRe.FindStringSubmatch(seatID); m != nil {
		d := Descriptor{Event: "1", Section: "A", Seat: "1", Category: m[1]}
		if p := prefixRe.FindStringSubmatch(seatID); p != nil {
			d.Event = normalizeEvent(p[1])
			d.Section = p[2]
			d.Seat = p[3]
		}
		return d
	}

	// Tier 4: last resort, search for any event and section fragments
	// independently and default the category.
	d := Descriptor{Event: "1", Section: "A", Seat: "1", Category: "1"}
	if m := eventRe.FindStringSubmatch(seatID); m != nil {
		d.Event = normalizeEvent(m[1])
	}
	if m := sectionRe.FindStringSubmatch(seatID); m != nil {
		d.Section = m[1]
		d.Seat = m[2]
	}
	return d
}

// normalizeEvent strips leading zeros from an event id ("04" -> "4").
// Non-numeric input is returned unchanged so that Parse stays total.
func normalizeEvent(raw string) string {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return strconv.Itoa(n)
}

// categoryColors maps numbered categories to their display colors.
var categoryColors = map[string]string{
	"1": "purple",
	"2": "blue",
	"3": "green",
	"4": "yellow",
	"5": "orange",
	"6": "red",
}

// CategoryColor returns the display color for a category, "gray" for
// anything unmapped.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "gray"
}

// CategoryLabel returns the human-facing label for a category.
func CategoryLabel(category string) string {
	if strings.EqualFold(category, "VIP") {
		return "VIP"
	}
	return "CAT " + category
}

// CategoryID returns the wire-level category identifier used by the
// inventory and ticket services: "vip" for VIP, "cat_<n>" otherwise.
func CategoryID(category string) string {
	if strings.EqualFold(category, "VIP") {
		return "vip"
	}
	return "cat_" + category
}

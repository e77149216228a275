package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"consignment-reconciliation-backend/internal/domain"
)

// Documents are plain text split into date-tagged sections: a line holding a
// date opens a section, and the lines below it belong to that date until the
// next date line. Within a section, line items are bullet or numbered lines.

var dateFormats = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

var (
	itemRe   = regexp.MustCompile(`^(?:[-*\x{2022}]|\d+[.)])\s+`)
	countRe  = regexp.MustCompile(`(?i)^consignments?\s*[:=]\s*(-?\d+)\s*$`)
	pickupRe = regexp.MustCompile(`(?i)^pickups?\s*[:=]\s*(-?\d+)\s*$`)
	amountRe = regexp.MustCompile(`(-?)[£$]?\s*(\d[\d,]*(?:\.\d+)?)\s*$`)
)

// RunsheetDay is the extracted delivery data for one date.
type RunsheetDay struct {
	Consignments int
	Pickups      int
}

// InvoiceLine is one extracted payment.
type InvoiceLine struct {
	Date   time.Time
	Amount domain.Money
}

func parseDateLine(line string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, line); err == nil {
			return domain.DateOnly(d), true
		}
	}
	return time.Time{}, false
}

// ParseRunsheet extracts per-date delivery counts from runsheet text.
// Explicit "Consignments: N" lines are authoritative for their section;
// otherwise each line item counts as one delivery. Malformed records are
// dropped with a warning, never silently folded into counts.
func ParseRunsheet(text string) (map[time.Time]RunsheetDay, []string) {
	days := make(map[time.Time]RunsheetDay)
	var warnings []string

	var current time.Time
	var haveDate bool
	var explicit bool
	var explicitCount, itemCount, pickups int

	flush := func() {
		if !haveDate {
			return
		}
		count := itemCount
		if explicit {
			count = explicitCount
		}
		if count > 0 || pickups > 0 {
			day := days[current]
			day.Consignments += count
			day.Pickups += pickups
			days[current] = day
		}
		explicit = false
		explicitCount, itemCount, pickups = 0, 0, 0
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if d, ok := parseDateLine(line); ok {
			flush()
			current = d
			haveDate = true
			continue
		}
		if !haveDate {
			continue
		}

		if m := countRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 0 {
				warnings = append(warnings, fmt.Sprintf("runsheet: invalid consignment count %q for %s", m[1], current.Format("2006-01-02")))
				continue
			}
			explicit = true
			explicitCount += n
			continue
		}
		if m := pickupRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 0 {
				warnings = append(warnings, fmt.Sprintf("runsheet: invalid pickup count %q for %s", m[1], current.Format("2006-01-02")))
				continue
			}
			pickups += n
			continue
		}
		if itemRe.MatchString(line) {
			itemCount++
		}
	}
	flush()

	return days, warnings
}

// ParseInvoice extracts dated payment amounts from invoice text. A payment
// line is a line item carrying a monetary amount; negative or unparseable
// amounts are dropped with a warning.
func ParseInvoice(text string) ([]InvoiceLine, []string) {
	var lines []InvoiceLine
	var warnings []string

	var current time.Time
	var haveDate bool

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if d, ok := parseDateLine(line); ok {
			current = d
			haveDate = true
			continue
		}
		if !haveDate || !itemRe.MatchString(line) {
			continue
		}

		m := amountRe.FindStringSubmatch(line)
		if m == nil {
			warnings = append(warnings, fmt.Sprintf("invoice: no amount on line %q for %s", line, current.Format("2006-01-02")))
			continue
		}
		if m[1] == "-" {
			warnings = append(warnings, fmt.Sprintf("invoice: negative amount on line %q for %s", line, current.Format("2006-01-02")))
			continue
		}
		amount, err := domain.MoneyFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invoice: unparseable amount %q for %s", m[2], current.Format("2006-01-02")))
			continue
		}
		lines = append(lines, InvoiceLine{Date: current, Amount: amount})
	}

	return lines, warnings
}

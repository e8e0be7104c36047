/*
duration.go - Chargeable-day calculation

PURPOSE:
  Computes how many days a leave application charges against a balance:
  the inclusive calendar span minus weekends and public holidays.

RULES:
  - Half-day requests always charge exactly 0.5, regardless of the span.
    Multi-day half-day ranges are not modeled.
  - Saturdays and Sundays in the range never charge.
  - A holiday charges nothing when it falls strictly between the start and
    end dates. A holiday exactly on the start date still charges; this
    boundary is deliberate and pinned by tests.
  - The result is floored at zero.

The calculation is a pure function: no side effects, deterministic for
identical inputs.
*/
package leave

import "github.com/shopspring/decimal"

var halfDay = decimal.NewFromFloat(0.5)

// CalculateDuration returns the chargeable days between start and end
// inclusive, excluding weekends and the holidays that fall strictly inside
// the range. Returns ErrInvalidRange when end precedes start.
func CalculateDuration(start, end Date, isHalfDay bool, holidays []Holiday) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, ErrInvalidRange
	}

	if isHalfDay {
		return halfDay, nil
	}

	days := int64(start.DaysUntil(end)) + 1

	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.IsWeekend() {
			days--
		}
	}

	for _, h := range holidays {
		if h.Date.After(start) && h.Date.Before(end) {
			days--
		}
	}

	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(days), nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Calendar is a lookup-friendly view over a set of holidays.
type Calendar struct {
	holidays []Holiday
	byDate   map[string]Holiday
}

// NewCalendar builds a calendar from a holiday list. Later duplicates for the
// same date win, matching last-write semantics of the admin surface.
func NewCalendar(holidays []Holiday) *Calendar {
	c := &Calendar{byDate: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		c.Add(h)
	}
	return c
}

// Add registers a holiday. Holidays are immutable once created; adding a
// second holiday on the same date replaces the lookup entry but keeps both
// in the listing.
func (c *Calendar) Add(h Holiday) {
	c.holidays = append(c.holidays, h)
	c.byDate[h.Date.String()] = h
}

// Remove drops a holiday by id.
func (c *Calendar) Remove(id string) bool {
	for i, h := range c.holidays {
		if h.ID == id {
			c.holidays = append(c.holidays[:i], c.holidays[i+1:]...)
			if cur, ok := c.byDate[h.Date.String()]; ok && cur.ID == id {
				delete(c.byDate, h.Date.String())
			}
			return true
		}
	}
	return false
}

// IsHoliday reports whether the date is a registered holiday.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.byDate[d.String()]
	return ok
}

// All returns every holiday, in insertion order.
func (c *Calendar) All() []Holiday {
	out := make([]Holiday, len(c.holidays))
	copy(out, c.holidays)
	return out
}

// InRange returns the holidays with from <= date <= to.
func (c *Calendar) InRange(from, to Date) []Holiday {
	var out []Holiday
	for _, h := range c.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out
}

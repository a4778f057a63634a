package upgrade

import (
	"fmt"
	"strings"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/legacy"
)

// TimePoint is one end of a legacy timestamp: a calendar date and an
// optional time of day.
type TimePoint struct {
	Year, Month, Day int
	Hour, Minute     *int
}

// HasTime reports whether a time of day is set.
func (t TimePoint) HasTime() bool { return t.Hour != nil }

// Date renders the zero-padded date part, YYYY-MM-DD.
func (t TimePoint) Date() string { return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day) }

// Clock renders the zero-padded time part, HH:MM, or "" without a time.
func (t TimePoint) Clock() string {
	if t.Hour == nil {
		return ""
	}
	m := 0
	if t.Minute != nil {
		m = *t.Minute
	}
	return fmt.Sprintf("%02d:%02d", *t.Hour, m)
}

func (t TimePoint) sameDay(o TimePoint) bool {
	return t.Year == o.Year && t.Month == o.Month && t.Day == o.Day
}

// DefaultFormat renders "YYYY-MM-DD", followed by " HH:MM" when a time is
// present.
func DefaultFormat(t TimePoint) string {
	if c := t.Clock(); c != "" {
		return t.Date() + " " + c
	}
	return t.Date()
}

// timePoints splits a legacy timestamp into its start and end. Without any
// end field the end is the start. A missing end date falls back to the start
// date; a missing end time falls back to the start time only when no end
// date was given either. An end minute without an end hour keeps the start
// hour.
func timePoints(n *legacy.Node) (start, end TimePoint, ranged bool) {
	start = TimePoint{Year: n.Year, Month: n.Month, Day: n.Day, Hour: n.Hour, Minute: n.Minute}
	if n.EndYear == nil && n.EndMonth == nil && n.EndDay == nil && n.EndHour == nil && n.EndMinute == nil {
		return start, start, false
	}
	end = start
	endDate := n.EndYear != nil || n.EndMonth != nil || n.EndDay != nil
	if n.EndYear != nil {
		end.Year = *n.EndYear
	}
	if n.EndMonth != nil {
		end.Month = *n.EndMonth
	}
	if n.EndDay != nil {
		end.Day = *n.EndDay
	}
	switch {
	case n.EndHour != nil:
		end.Hour, end.Minute = n.EndHour, n.EndMinute
	case n.EndMinute != nil:
		end.Hour, end.Minute = start.Hour, n.EndMinute
	case endDate:
		end.Hour, end.Minute = nil, nil
	}
	return start, end, true
}

// timestampFields flattens a legacy timestamp into the current properties:
// timestampType, start, end, rawValue, repeater, warning and the day name
// as an extension field.
func (u *Upgrader) timestampFields(n *legacy.Node, f orgmodel.Fields) {
	start, end, ranged := timePoints(n)
	typ := n.TimestampType
	if typ == "" {
		typ = "active"
	}
	f["timestampType"] = typ
	f["start"] = u.format(start)
	f["end"] = u.format(end)
	f[orgmodel.PropRawValue] = rawTimestamp(typ, n.DayName, start, end, ranged, n.Repeater, n.Warning)
	if n.Repeater != nil {
		f["repeater"] = markFields(n.Repeater)
	}
	if n.Warning != nil {
		f["warning"] = markFields(n.Warning)
	}
	if n.DayName != "" {
		f["dayName"] = n.DayName
	}
	// an end minute with no hour on either side has nowhere to go
	if n.EndHour == nil && n.EndMinute != nil && n.Hour == nil {
		f["endMinute"] = *n.EndMinute
	}
}

// markFields keeps only the components the legacy mark carried, so an
// incomplete cookie fails construction with malformed_timestamp.
func markFields(m *legacy.Mark) map[string]any {
	out := map[string]any{}
	if m.Type != "" {
		out["type"] = m.Type
	}
	if m.Value != nil {
		out["value"] = *m.Value
	}
	if m.Unit != "" {
		out["unit"] = m.Unit
	}
	return out
}

// rawTimestamp composes the Org source of a timestamp, e.g.
// "<2024-03-05 Tue 09:30-10:00 +1w>" or "[2024-03-05]--[2024-03-07]".
func rawTimestamp(typ, dayName string, start, end TimePoint, ranged bool, rep, warn *legacy.Mark) string {
	open, closing := "<", ">"
	if strings.HasPrefix(typ, "inactive") {
		open, closing = "[", "]"
	}
	stamp := func(t TimePoint, clock string, cookies bool) string {
		var b strings.Builder
		b.WriteString(open)
		b.WriteString(t.Date())
		if dayName != "" && t.sameDay(start) {
			b.WriteString(" " + dayName)
		}
		if clock != "" {
			b.WriteString(" " + clock)
		}
		if cookies {
			for _, m := range []*legacy.Mark{rep, warn} {
				if m == nil {
					continue
				}
				v := 0
				if m.Value != nil {
					v = *m.Value
				}
				fmt.Fprintf(&b, " %s%d%s", m.Type, v, m.Unit)
			}
		}
		b.WriteString(closing)
		return b.String()
	}
	if !ranged {
		return stamp(start, start.Clock(), true)
	}
	if start.sameDay(end) {
		clock := start.Clock()
		if c := end.Clock(); c != "" && c != clock {
			clock += "-" + c
		}
		return stamp(start, clock, true)
	}
	return stamp(start, start.Clock(), true) + "--" + stamp(end, end.Clock(), false)
}

package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"tripcraft/pkg/utils"
)

// DaySection is one day's slice of the generated itinerary text.
type DaySection struct {
	Day  int
	Body string
}

// CalendarEvent is one all-day event in the exported calendar.
type CalendarEvent struct {
	Day         int
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
}

type CalendarServiceInterface interface {
	// BuildEvents derives one event per parsed day. When fewer day markers
	// are found than requested days it still returns the events it could
	// build, alongside ErrUnparseableItinerary.
	BuildEvents(itinerary string, arrival time.Time, destination string, days int) ([]CalendarEvent, error)

	// WriteICS renders events as an iCalendar file.
	WriteICS(events []CalendarEvent) []byte

	// Export combines BuildEvents and WriteICS.
	Export(itinerary string, arrival time.Time, destination string, days int) ([]byte, error)
}

type CalendarService struct {
	now    func() time.Time
	newUID func() string
}

func NewCalendarService() *CalendarService {
	return &CalendarService{
		now:    time.Now,
		newUID: func() string { return uuid.New().String() },
	}
}

func (s *CalendarService) BuildEvents(itinerary string, arrival time.Time, destination string, days int) ([]CalendarEvent, error) {
	sections := ParseDaySections(itinerary)

	// First occurrence wins when a day number repeats across chunks.
	byDay := make(map[int]DaySection, len(sections))
	for _, sec := range sections {
		if sec.Day < 1 || sec.Day > days {
			continue
		}
		if _, seen := byDay[sec.Day]; !seen {
			byDay[sec.Day] = sec
		}
	}

	nums := make([]int, 0, len(byDay))
	for n := range byDay {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	events := make([]CalendarEvent, 0, len(nums))
	for _, n := range nums {
		start := arrival.AddDate(0, 0, n-1)
		events = append(events, CalendarEvent{
			Day:         n,
			Start:       start,
			End:         start.AddDate(0, 0, 1),
			Summary:     fmt.Sprintf("Day %d in %s", n, destination),
			Description: byDay[n].Body,
		})
	}

	if len(events) < days {
		return events, fmt.Errorf("%w: found %d day markers, expected %d", utils.ErrUnparseableItinerary, len(events), days)
	}
	return events, nil
}

func (s *CalendarService) Export(itinerary string, arrival time.Time, destination string, days int) ([]byte, error) {
	events, err := s.BuildEvents(itinerary, arrival, destination, days)
	if len(events) == 0 {
		return nil, err
	}
	return s.WriteICS(events), err
}

// ParseDaySections scans the itinerary line by line for day markers
// ("Day 3:", "## Day 3 –", "day 3") and accumulates each day's text until
// the next marker or end of input. Text before the first marker (Essential
// Info, Weather) is not part of any day.
func ParseDaySections(text string) []DaySection {
	var (
		sections []DaySection
		current  *DaySection
		body     strings.Builder
	)

	flush := func() {
		if current != nil {
			current.Body = strings.TrimSpace(body.String())
			sections = append(sections, *current)
			body.Reset()
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if day, rest, ok := parseDayMarker(line); ok {
			flush()
			current = &DaySection{Day: day}
			if rest != "" {
				body.WriteString(rest)
				body.WriteString("\n")
			}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return sections
}

// parseDayMarker reports whether line is a day marker, returning the day
// number and the remainder of the marker line.
func parseDayMarker(line string) (int, string, bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#*")
	s = strings.TrimSpace(s)

	if len(s) < 4 || !strings.EqualFold(s[:3], "day") {
		return 0, "", false
	}
	// "day" must be followed by whitespace or digits; "Daylight" and
	// friends fall out at the digit scan below.
	rest := strings.TrimLeft(s[3:], " \t")

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	day, err := strconv.Atoi(rest[:i])
	if err != nil || day < 1 {
		return 0, "", false
	}

	remainder := strings.TrimLeft(rest[i:], " \t:–—-*")
	return day, strings.TrimSpace(remainder), true
}

// WriteICS emits a minimal VCALENDAR with one all-day VEVENT per event.
// UID and DTSTAMP come from the injectable generators so the rest of the
// output is byte-identical across exports of the same itinerary.
func (s *CalendarService) WriteICS(events []CalendarEvent) []byte {
	var b strings.Builder

	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:-//TripCraft//Itinerary Planner//EN")
	writeICSLine(&b, "CALSCALE:GREGORIAN")
	writeICSLine(&b, "METHOD:PUBLISH")

	stamp := utils.FormatICSStamp(s.now())
	for _, ev := range events {
		writeICSLine(&b, "BEGIN:VEVENT")
		writeICSLine(&b, "UID:"+s.newUID())
		writeICSLine(&b, "DTSTAMP:"+stamp)
		writeICSLine(&b, "DTSTART;VALUE=DATE:"+utils.FormatICSDate(ev.Start))
		writeICSLine(&b, "DTEND;VALUE=DATE:"+utils.FormatICSDate(ev.End))
		writeICSLine(&b, "SUMMARY:"+escapeICSText(ev.Summary))
		writeICSLine(&b, "DESCRIPTION:"+escapeICSText(ev.Description))
		writeICSLine(&b, "END:VEVENT")
	}

	writeICSLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

var icsEscaper = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\;",
	",", "\\,",
	"\r\n", "\\n",
	"\n", "\\n",
)

func escapeICSText(s string) string {
	return icsEscaper.Replace(s)
}

// writeICSLine writes one content line, folded at 75 octets per RFC 5545
// without splitting multi-byte runes.
func writeICSLine(b *strings.Builder, line string) {
	const limit = 75

	octets := 0
	for _, r := range line {
		size := utf8.RuneLen(r)
		if octets+size > limit {
			b.WriteString("\r\n ")
			octets = 1 // the leading space counts toward the next line
		}
		b.WriteRune(r)
		octets += size
	}
	b.WriteString("\r\n")
}

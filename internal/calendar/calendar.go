// Package calendar turns reminder events into shareable calendar payloads:
// an RFC 5545 ICS block and a Google Calendar deep link. Both outputs are
// pure functions of the event, byte-identical across calls.
package calendar

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ErrNoTitle reports an event with an empty title. Formatting is refused
// rather than emitting a SUMMARY-less VEVENT.
var ErrNoTitle = errors.New("calendar event has no title")

// utcBasic is the UTC basic ISO form used in DTSTART/DTEND and in the
// Google Calendar dates parameter.
const utcBasic = "20060102T150405Z"

// Event is a single proposed reminder. Start and End are instants; the
// formatter converts them to UTC and does not reorder or validate the
// interval.
type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// uid derives a stable event identifier so repeated exports of the same
// reminder serialize identically.
func (e Event) uid() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d", e.Title, e.Start.Unix(), e.End.Unix())
	return fmt.Sprintf("%016x@stride", h.Sum64())
}

// ToICS renders the event as a VCALENDAR text block with CRLF line endings.
// Description and location lines are omitted entirely when empty. DTSTAMP is
// pinned to the event start so the output carries no wall-clock content.
func ToICS(e Event) (string, error) {
	if e.Title == "" {
		return "", ErrNoTitle
	}

	cal := ics.NewCalendar()
	cal.SetProductId("-//stride//habit reminders//EN")

	ev := cal.AddEvent(e.uid())
	ev.SetDtStampTime(e.Start.UTC())
	ev.SetStartAt(e.Start.UTC())
	ev.SetEndAt(e.End.UTC())
	ev.SetSummary(e.Title)
	if e.Description != "" {
		ev.SetDescription(e.Description)
	}
	if e.Location != "" {
		ev.SetLocation(e.Location)
	}

	return cal.Serialize(), nil
}

// GoogleURL renders the event as a calendar.google.com prefill link. The
// details and location parameters are always present, empty when unset.
func GoogleURL(e Event) (string, error) {
	if e.Title == "" {
		return "", ErrNoTitle
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", e.Start.UTC().Format(utcBasic)+"/"+e.End.UTC().Format(utcBasic))
	q.Set("details", e.Description)
	q.Set("location", e.Location)

	u := url.URL{
		Scheme:   "https",
		Host:     "calendar.google.com",
		Path:     "/calendar/render",
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

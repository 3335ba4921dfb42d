// Package calendar builds the outbound hand-offs to external calendar
// apps: the Google Calendar deep link and an ICS rendering. Both are
// fire-and-forget; nothing reports back.
package calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/DCParty/senior-scheduler/internal/model"
)

// detailsNote marks events created by this app.
const detailsNote = "由樂齡貼身秘書建立"

// GoogleLink renders the calendar.google.com template URL. Start and
// end are local wall clock with no timezone suffix; the end is the
// start with the hour incremented by one and no rollover across
// midnight, matching the long-observed link format.
func GoogleLink(a model.Appointment) string {
	start := strings.ReplaceAll(a.Date, "-", "") + "T" + strings.ReplaceAll(a.Time, ":", "") + "00"

	hh, mm, ok := splitTime(a.Time)
	if !ok {
		hh, mm = "00", "00"
	}
	endHour, _ := strconv.Atoi(hh)
	end := strings.ReplaceAll(a.Date, "-", "") + "T" + fmt.Sprintf("%02d", endHour+1) + mm + "00"

	return "https://calendar.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + url.QueryEscape(a.Title) +
		"&dates=" + start + "/" + end +
		"&details=" + url.QueryEscape(detailsNote)
}

func splitTime(t string) (hh, mm string, ok bool) {
	i := strings.IndexByte(t, ':')
	if i < 0 {
		return "", "", false
	}
	return t[:i], t[i+1:], true
}

// ICS renders the appointment as a one-event VCALENDAR. Unlike the
// Google link, the end instant here uses real time arithmetic.
func ICS(a model.Appointment) (string, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, time.Local)
	if err != nil {
		return "", fmt.Errorf("bad appointment instant: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	ev := cal.AddEvent(a.ID + "@senior-scheduler")
	ev.SetCreatedTime(time.Now())
	ev.SetDtStampTime(time.Now())
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(time.Hour))
	ev.SetSummary(a.Title)
	ev.SetDescription(detailsNote)

	return cal.Serialize(), nil
}

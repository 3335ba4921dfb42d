// Package view derives the displayed list from the full collection:
// sorting, week filtering, today/tomorrow counts and friendly date
// labels. Everything here is pure; the reference date is always passed
// in.
package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/DCParty/senior-scheduler/internal/model"
)

const dateLayout = "2006-01-02"

// weekday symbols, Sunday first
var weekdays = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// startKey is the composite sort key: the instant date "T" time as a
// lexically comparable string.
func startKey(a model.Appointment) string {
	return a.Date + "T" + a.Time
}

// Sort returns a copy ordered ascending by (date, time). Records with
// equal keys keep their relative input order.
func Sort(list []model.Appointment) []model.Appointment {
	out := make([]model.Appointment, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return startKey(out[i]) < startKey(out[j])
	})
	return out
}

// FilterWeek keeps records dated between today and today+7 days,
// inclusive on both ends. The comparison is calendar based: a today
// record whose time has already passed stays in.
func FilterWeek(list []model.Appointment, today time.Time) []model.Appointment {
	lo := today.Format(dateLayout)
	hi := today.AddDate(0, 0, 7).Format(dateLayout)
	out := make([]model.Appointment, 0, len(list))
	for _, a := range list {
		if a.Date >= lo && a.Date <= hi {
			out = append(out, a)
		}
	}
	return out
}

// Counts reports how many records fall exactly on today and on
// tomorrow, over the unfiltered collection.
func Counts(list []model.Appointment, today time.Time) (todayCount, tomorrowCount int) {
	ts := today.Format(dateLayout)
	tm := today.AddDate(0, 0, 1).Format(dateLayout)
	for _, a := range list {
		switch a.Date {
		case ts:
			todayCount++
		case tm:
			tomorrowCount++
		}
	}
	return todayCount, tomorrowCount
}

// FriendlyDate renders a date as 今天, 明天, or "M/D (週X)".
// Unparseable dates come back verbatim.
func FriendlyDate(date string, today time.Time) string {
	if date == today.Format(dateLayout) {
		return "今天"
	}
	if date == today.AddDate(0, 0, 1).Format(dateLayout) {
		return "明天"
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d (%s)", int(d.Month()), d.Day(), weekdays[int(d.Weekday())])
}

// Announcement is the spoken line for one appointment.
func Announcement(a model.Appointment, today time.Time) string {
	return fmt.Sprintf("%s，時間是%s，%s", a.Title, FriendlyDate(a.Date, today), a.Time)
}

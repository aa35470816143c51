package queue

import (
	"fmt"
	"time"
)

// Schedule computes the next run time for a periodic task, relative to its
// last scheduled run (or "now" on the first run).
type Schedule interface {
	// Next returns the next instant at or after from that the schedule is
	// due to fire.
	Next(from time.Time) time.Time
	// String describes the schedule for logging.
	String() string
}

// intervalSchedule fires every fixed duration after from.
type intervalSchedule struct {
	interval time.Duration
	label    string
}

func (s intervalSchedule) Next(from time.Time) time.Time { return from.Add(s.interval) }
func (s intervalSchedule) String() string                { return s.label }

// EveryInterval fires every d after the prior run.
func EveryInterval(d time.Duration) Schedule {
	return intervalSchedule{interval: d, label: fmt.Sprintf("every %s", d)}
}

// EveryMinute fires once a minute.
func EveryMinute() Schedule {
	return intervalSchedule{interval: time.Minute, label: "every minute"}
}

// EveryMinutes fires every n minutes.
func EveryMinutes(n int) Schedule {
	return intervalSchedule{interval: time.Duration(n) * time.Minute, label: fmt.Sprintf("every %d minutes", n)}
}

// EveryHours fires every n hours.
func EveryHours(n int) Schedule {
	return intervalSchedule{interval: time.Duration(n) * time.Hour, label: fmt.Sprintf("every %d hours", n)}
}

// Hourly fires once an hour, on the hour.
func Hourly() Schedule {
	return hourlySchedule{minute: 0, label: "hourly"}
}

// HourlyAt fires once an hour, at the given minute.
func HourlyAt(minute int) Schedule {
	return hourlySchedule{minute: minute, label: fmt.Sprintf("hourly at :%02d", minute)}
}

type hourlySchedule struct {
	minute int
	label  string
}

func (s hourlySchedule) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.Add(time.Hour)
	}
	return next
}

func (s hourlySchedule) String() string { return s.label }

// Daily fires once a day at midnight.
func Daily() Schedule {
	return dailySchedule{hour: 0, minute: 0, label: "daily"}
}

// DailyAt fires once a day at the given hour:minute.
func DailyAt(hour, minute int) Schedule {
	return dailySchedule{hour: hour, minute: minute, label: fmt.Sprintf("daily at %02d:%02d", hour, minute)}
}

type dailySchedule struct {
	hour, minute int
	label        string
}

func (s dailySchedule) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s dailySchedule) String() string { return s.label }

// Weekly fires once a week, at midnight on the given weekday.
func Weekly(weekday time.Weekday) Schedule {
	return weeklySchedule{weekday: weekday, label: fmt.Sprintf("weekly on %s", weekday)}
}

// WeeklyOn fires once a week, on the given weekday at hour:minute.
func WeeklyOn(weekday time.Weekday, hour, minute int) Schedule {
	return weeklySchedule{
		weekday: weekday, hour: hour, minute: minute,
		label: fmt.Sprintf("weekly on %s at %02d:%02d", weekday, hour, minute),
	}
}

type weeklySchedule struct {
	weekday     time.Weekday
	hour, minute int
	label       string
}

func (s weeklySchedule) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
	for next.Weekday() != s.weekday || !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s weeklySchedule) String() string { return s.label }

// Monthly fires once a month, at midnight on the given day of month.
func Monthly(day int) Schedule {
	return monthlySchedule{day: day, label: fmt.Sprintf("monthly on day %d", day)}
}

// MonthlyOn fires once a month, on the given day at hour:minute.
func MonthlyOn(day, hour, minute int) Schedule {
	return monthlySchedule{
		day: day, hour: hour, minute: minute,
		label: fmt.Sprintf("monthly on day %d at %02d:%02d", day, hour, minute),
	}
}

type monthlySchedule struct {
	day, hour, minute int
	label             string
}

func (s monthlySchedule) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), s.day, s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

func (s monthlySchedule) String() string { return s.label }

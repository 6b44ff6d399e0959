package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — пять полей плюс дескрипторы (@daily, @every 30m).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseExpr разбирает cron-выражение.
func ParseExpr(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(expr string) error {
	_, err := ParseExpr(expr)
	return err
}

// loadLocation возвращает timezone или UTC, если имя пустое или неизвестное.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NextDue вычисляет следующее время запуска после from в указанной timezone.
// Результат в UTC.
func NextDue(schedule cron.Schedule, loc *time.Location, from time.Time) time.Time {
	return schedule.Next(from.In(loc)).UTC()
}

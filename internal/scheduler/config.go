package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Spec — расписание регрессионных прогонов.
type Spec struct {
	// Expr — cron-выражение; пустое отключает планировщик.
	Expr string
	// Timezone — IANA имя, по умолчанию UTC.
	Timezone string
	// Cases — номера кейсов; пустой список означает весь каталог.
	Cases []int
}

// Enabled возвращает true, если расписание задано.
func (s Spec) Enabled() bool {
	return strings.TrimSpace(s.Expr) != ""
}

// SpecFromEnv читает AVREC_SCHEDULE, AVREC_SCHEDULE_TZ и AVREC_SCHEDULE_CASES.
func SpecFromEnv() (Spec, error) {
	spec := Spec{
		Expr:     strings.TrimSpace(os.Getenv("AVREC_SCHEDULE")),
		Timezone: os.Getenv("AVREC_SCHEDULE_TZ"),
	}

	cases, err := ParseCaseList(os.Getenv("AVREC_SCHEDULE_CASES"))
	if err != nil {
		return spec, err
	}
	spec.Cases = cases

	if spec.Enabled() {
		if err := ValidateCronExpr(spec.Expr); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// ParseCaseList разбирает список номеров через запятую.
func ParseCaseList(s string) ([]int, error) {
	var cases []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid case number %q: %w", part, err)
		}
		cases = append(cases, n)
	}
	return cases, nil
}

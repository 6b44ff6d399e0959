package suite

import (
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// Report — итог прогона набора.
type Report struct {
	Runs     []*domain.CaseRun `json:"runs"`
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Duration time.Duration     `json:"duration_ns"`
}

// NewReport собирает итог по прогонам.
func NewReport(runs []*domain.CaseRun) Report {
	r := Report{Runs: runs, Total: len(runs)}
	for _, run := range runs {
		switch run.Status {
		case domain.CaseStatusPassed:
			r.Passed++
		case domain.CaseStatusFailed:
			r.Failed++
		}
		r.Duration += run.Duration()
	}
	return r
}

// OK возвращает true, если все прогоны прошли.
func (r Report) OK() bool {
	return r.Failed == 0 && r.Passed == r.Total
}

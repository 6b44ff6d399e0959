// Package scheduler запускает регрессионные прогоны по cron-расписанию.
//
// Расписание задаётся переменной AVREC_SCHEDULE (например "0 3 * * *"
// или "@every 6h"). Каждый тик сверяет текущее время с next_due_at и
// ставит кейсы в очередь оркестратора.
//
// Использование:
//
//	sched, err := scheduler.New(scheduler.Config{
//	    Spec:      spec,
//	    Submitter: orch,
//	    Logger:    logger,
//	})
//	go sched.Run(ctx)
package scheduler

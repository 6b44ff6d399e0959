// Package mq связывает раннер с RabbitMQ.
//
// Входящие заявки (case.requested) принимает оркестратор,
// исходящие события (case.started, case.completed) читают внешние наблюдатели.
// Обменник avrec.cases маршрутизирует все три типа, avrec.dlq собирает отклонённые заявки.
package mq

// Package orchestrator принимает заявки на прогоны и выполняет их по одной.
//
// Заявки приходят из HTTP API, планировщика и очереди cases.requested.
// Каждая заявка сначала сохраняется как PENDING, поэтому после рестарта
// polling подхватывает то, что не успело выполниться.
package orchestrator

package mq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// MessageType — тип сообщения.
type MessageType string

const (
	MessageTypeCaseRequested MessageType = "case.requested"
	MessageTypeCaseStarted   MessageType = "case.started"
	MessageTypeCaseCompleted MessageType = "case.completed"
)

// Message — конверт всех сообщений.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage создаёт конверт с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// CaseRequestedPayload — заявка на прогон кейса по номеру.
type CaseRequestedPayload struct {
	CaseNumber int `json:"case_number"`
}

// CaseRunPayload — снимок прогона для событий started/completed.
type CaseRunPayload struct {
	RunID      uuid.UUID         `json:"run_id"`
	CaseNumber int               `json:"case_number"`
	CaseName   string            `json:"case_name"`
	Status     domain.CaseStatus `json:"status"`
	Dispatched []domain.Token    `json:"dispatched,omitempty"`
	Failures   []string          `json:"failures,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms,omitempty"`
}

// NewCaseRunPayload строит payload из прогона.
func NewCaseRunPayload(run *domain.CaseRun) CaseRunPayload {
	return CaseRunPayload{
		RunID:      run.ID,
		CaseNumber: run.CaseNumber,
		CaseName:   run.CaseName,
		Status:     run.Status,
		Dispatched: run.Dispatched,
		Failures:   run.Failures,
		Error:      run.Error,
		DurationMS: run.Duration().Milliseconds(),
	}
}

// ParsePayload парсит payload сообщения в указанный тип.
// После json.Unmarshal конверта payload лежит как map, поэтому кодируем заново.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}
	if err := json.Unmarshal(payloadBytes, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}
	return result, nil
}

// DecodeMessage разбирает тело доставки.
func DecodeMessage(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.Type == "" {
		return msg, fmt.Errorf("message %q has no type", msg.ID)
	}
	return msg, nil
}

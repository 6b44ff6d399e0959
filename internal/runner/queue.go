package runner

import "github.com/laiyoufafa/multimedia-player-framework/internal/domain"

// Queue — очередь токенов, потребляемая с головы.
// Владелец один (горутина раннера), блокировок нет.
type Queue struct {
	tokens []domain.Token
}

// NewQueue создаёт очередь из копии tokens.
func NewQueue(tokens []domain.Token) *Queue {
	q := &Queue{tokens: make([]domain.Token, len(tokens))}
	copy(q.tokens, tokens)
	return q
}

// Pop снимает токен с головы.
func (q *Queue) Pop() (domain.Token, bool) {
	if len(q.tokens) == 0 {
		return 0, false
	}
	t := q.tokens[0]
	q.tokens = q.tokens[1:]
	return t, true
}

// Peek возвращает токен с головы без снятия.
func (q *Queue) Peek() (domain.Token, bool) {
	if len(q.tokens) == 0 {
		return 0, false
	}
	return q.tokens[0], true
}

// Len возвращает число оставшихся токенов.
func (q *Queue) Len() int {
	return len(q.tokens)
}

// Remaining возвращает копию оставшихся токенов.
func (q *Queue) Remaining() []domain.Token {
	out := make([]domain.Token, len(q.tokens))
	copy(out, q.tokens)
	return out
}

// Clear опустошает очередь.
func (q *Queue) Clear() {
	q.tokens = nil
}

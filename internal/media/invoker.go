package media

import (
	"context"
	"fmt"
)

// Mode — стратегия вызова платформы.
type Mode int

const (
	// ModePromise — дождаться вызова и вернуть его результат.
	ModePromise Mode = iota
	// ModeCallback — запустить вызов и сообщить результат через callback.
	ModeCallback
)

// String возвращает имя стратегии.
func (m Mode) String() string {
	if m == ModeCallback {
		return "callback"
	}
	return "promise"
}

// Op — один вызов платформы.
type Op func(ctx context.Context) error

// Invoker выполняет вызов платформы по одной из стратегий.
//
// done получает результат Op. catch получает панику внутри Op,
// преобразованную в ошибку; done в этом случае не вызывается.
type Invoker interface {
	Mode() Mode
	Invoke(ctx context.Context, op Op, done func(error), catch func(error))
}

// NewInvoker возвращает стратегию по режиму: ModePromise — синхронная,
// ModeCallback — асинхронная.
func NewInvoker(mode Mode) Invoker {
	if mode == ModeCallback {
		return callbackInvoker{}
	}
	return promiseInvoker{}
}

type promiseInvoker struct{}

func (promiseInvoker) Mode() Mode { return ModePromise }

func (promiseInvoker) Invoke(ctx context.Context, op Op, done func(error), catch func(error)) {
	run(ctx, op, done, catch)
}

type callbackInvoker struct{}

func (callbackInvoker) Mode() Mode { return ModeCallback }

func (callbackInvoker) Invoke(ctx context.Context, op Op, done func(error), catch func(error)) {
	go run(ctx, op, done, catch)
}

func run(ctx context.Context, op Op, done func(error), catch func(error)) {
	defer func() {
		if r := recover(); r != nil {
			if catch != nil {
				catch(fmt.Errorf("panic: %v", r))
			}
		}
	}()
	err := op(ctx)
	if done != nil {
		done(err)
	}
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Token — идентификатор одного действия в очереди шагов.
//
// Значения совпадают с числовыми кодами исходного набора кейсов,
// поэтому планы можно описывать как именами, так и числами.
// Token не несёт параметров: всё, что нужно действию, лежит в контексте кейса.
type Token int

const (
	// TokenEnd — терминальный маркер, завершает прогон.
	TokenEnd Token = iota
	TokenCreatePromise
	TokenCreateCallback
	TokenPreparePromise
	TokenPrepareCallback
	TokenGetSurfacePromise
	TokenGetSurfaceCallback
	TokenStartCamera
	TokenStartPromise
	TokenStartCallback
	TokenPausePromise
	TokenPauseCallback
	TokenResumePromise
	TokenResumeCallback
	TokenStopPromise
	TokenStopCallback
	TokenResetPromise
	TokenResetCallback
	TokenReleasePromise
	TokenReleaseCallback
	// TokenSetCallbackOff — снять подписки на события рекордера.
	TokenSetCallbackOff
	// TokenStopVideoOutput — остановить видеовыход камеры и закрыть вход.
	TokenStopVideoOutput
	// TokenReleaseCamera — освободить выходы и сессию камеры.
	TokenReleaseCamera
	// TokenPrintInfo — лог-маркер: печатает следующий элемент очереди.
	TokenPrintInfo
)

var tokenNames = map[Token]string{
	TokenEnd:                "end",
	TokenCreatePromise:      "create_promise",
	TokenCreateCallback:     "create_callback",
	TokenPreparePromise:     "prepare_promise",
	TokenPrepareCallback:    "prepare_callback",
	TokenGetSurfacePromise:  "getsurface_promise",
	TokenGetSurfaceCallback: "getsurface_callback",
	TokenStartCamera:        "start_camera",
	TokenStartPromise:       "start_promise",
	TokenStartCallback:      "start_callback",
	TokenPausePromise:       "pause_promise",
	TokenPauseCallback:      "pause_callback",
	TokenResumePromise:      "resume_promise",
	TokenResumeCallback:     "resume_callback",
	TokenStopPromise:        "stop_promise",
	TokenStopCallback:       "stop_callback",
	TokenResetPromise:       "reset_promise",
	TokenResetCallback:      "reset_callback",
	TokenReleasePromise:     "release_promise",
	TokenReleaseCallback:    "release_callback",
	TokenSetCallbackOff:     "set_callback_off",
	TokenStopVideoOutput:    "stop_video_output",
	TokenReleaseCamera:      "release_camera",
	TokenPrintInfo:          "print_info",
}

// String возвращает каноническое имя токена.
// Для неизвестных значений — "token(N)".
func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// IsKnown возвращает true, если токен входит в словарь действий.
func (t Token) IsKnown() bool {
	_, ok := tokenNames[t]
	return ok
}

// ParseToken разбирает имя токена или его числовой код.
//
// Числовые коды принимаются без проверки словаря: неизвестный код
// допустим в очереди и будет проигнорирован раннером.
func ParseToken(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Token(n), nil
	}
	if inner, ok := strings.CutPrefix(s, "token("); ok {
		if n, err := strconv.Atoi(strings.TrimSuffix(inner, ")")); err == nil {
			return Token(n), nil
		}
	}

	name := strings.ToLower(s)
	for t, n := range tokenNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown step token %q", s)
}

// MarshalText кодирует токен его именем.
func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText разбирает имя или код токена.
func (t *Token) UnmarshalText(text []byte) error {
	parsed, err := ParseToken(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tokens возвращает все известные токены в порядке кодов.
func Tokens() []Token {
	tokens := make([]Token, 0, len(tokenNames))
	for t := TokenEnd; t <= TokenPrintInfo; t++ {
		tokens = append(tokens, t)
	}
	return tokens
}

// FormatTokens форматирует последовательность токенов через " -> ".
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}

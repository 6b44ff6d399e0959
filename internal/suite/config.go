package suite

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/runner"
)

// Profile — набор дорожек, которые пишет кейс.
type Profile string

const (
	ProfileAV    Profile = "av"
	ProfileVideo Profile = "video"
	ProfileAudio Profile = "audio"
)

// Значения по умолчанию.
const (
	DefaultCaseTimeout      = 60 * time.Second
	DefaultPermissionSettle = 2 * time.Second
	DefaultPageSettle       = 1 * time.Second
)

// Config — настройки набора кейсов.
type Config struct {
	// OutputDir — каталог для записанных файлов. По умолчанию os.TempDir().
	OutputDir string

	// Profile — конфигурация записи. По умолчанию ProfileAV.
	Profile Profile

	// RecordInterval и PauseInterval передаются раннеру.
	RecordInterval time.Duration
	PauseInterval  time.Duration

	// CaseTimeout — дедлайн одного кейса. Зависший кейс помечается FAILED.
	CaseTimeout time.Duration

	// PermissionSettle — пауза после выдачи разрешений. 0 — без паузы.
	PermissionSettle time.Duration

	// PageSettle — пауза после открытия страницы предпросмотра. 0 — без паузы.
	PageSettle time.Duration

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// DefaultConfig возвращает настройки устройства.
func DefaultConfig() Config {
	return Config{
		OutputDir:        os.TempDir(),
		Profile:          ProfileAV,
		RecordInterval:   runner.DefaultRecordInterval,
		PauseInterval:    runner.DefaultPauseInterval,
		CaseTimeout:      DefaultCaseTimeout,
		PermissionSettle: DefaultPermissionSettle,
		PageSettle:       DefaultPageSettle,
	}
}

// ConfigFromEnv читает настройки из окружения поверх DefaultConfig.
//
//	AVREC_OUTPUT_DIR        каталог записи
//	AVREC_PROFILE           av | video | audio
//	AVREC_RECORD_MS         длительность записи после started
//	AVREC_PAUSE_MS          длительность паузы после paused
//	AVREC_CASE_TIMEOUT_SEC  дедлайн кейса
//	AVREC_SETTLE_MS         пауза после разрешений и страницы
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("AVREC_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("AVREC_PROFILE"); v != "" {
		cfg.Profile = ParseProfile(v)
	}
	if d, ok := envMillis("AVREC_RECORD_MS"); ok {
		cfg.RecordInterval = d
	}
	if d, ok := envMillis("AVREC_PAUSE_MS"); ok {
		cfg.PauseInterval = d
	}
	if v := os.Getenv("AVREC_CASE_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CaseTimeout = time.Duration(n) * time.Second
		}
	}
	if d, ok := envMillis("AVREC_SETTLE_MS"); ok {
		cfg.PermissionSettle = d
		cfg.PageSettle = d
	}

	return cfg
}

// ParseProfile парсит имя профиля. Неизвестное значение — ProfileAV.
func ParseProfile(s string) Profile {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileVideo:
		return ProfileVideo
	case ProfileAudio:
		return ProfileAudio
	default:
		return ProfileAV
	}
}

func envMillis(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

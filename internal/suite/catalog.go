package suite

import (
	"errors"
	"fmt"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// ErrCaseNotFound — кейса с таким номером нет в каталоге.
var ErrCaseNotFound = errors.New("case not found")

const (
	levelFunc = "Level2"
	sizeFunc  = "MediumTest"
)

// Сокращения для читаемости последовательностей.
const (
	end         = domain.TokenEnd
	createP     = domain.TokenCreatePromise
	createC     = domain.TokenCreateCallback
	prepareP    = domain.TokenPreparePromise
	prepareC    = domain.TokenPrepareCallback
	surfaceP    = domain.TokenGetSurfacePromise
	surfaceC    = domain.TokenGetSurfaceCallback
	startCamera = domain.TokenStartCamera
	startP      = domain.TokenStartPromise
	startC      = domain.TokenStartCallback
	pauseP      = domain.TokenPausePromise
	pauseC      = domain.TokenPauseCallback
	resumeP     = domain.TokenResumePromise
	resumeC     = domain.TokenResumeCallback
	stopP       = domain.TokenStopPromise
	stopC       = domain.TokenStopCallback
	resetP      = domain.TokenResetPromise
	resetC      = domain.TokenResetCallback
	releaseP    = domain.TokenReleasePromise
	releaseC    = domain.TokenReleaseCallback
	callbackOff = domain.TokenSetCallbackOff
	stopOutput  = domain.TokenStopVideoOutput
	releaseCam  = domain.TokenReleaseCamera
)

func newCase(number int, name, desc string, steps ...domain.Token) domain.TestCase {
	return domain.TestCase{
		Number:      number,
		Name:        domain.CaseName(number),
		Description: name + ": " + desc,
		Level:       levelFunc,
		Size:        sizeFunc,
		Steps:       steps,
	}
}

const (
	byPromise  = "basic function by promise interfaces"
	byCallback = "basic function by callback interfaces"
)

var catalog = []domain.TestCase{
	newCase(100, byPromise, "start-pause-resume-stop-reset-release",
		createP, prepareP, surfaceP, startCamera, startP, pauseP, resumeP, stopP, stopOutput, resetP,
		callbackOff, releaseP, releaseCam, end),
	newCase(200, byCallback, "start-pause-resume-stop-reset-release",
		createC, prepareC, surfaceC, startCamera, startC, pauseC, resumeC, stopC, stopOutput, resetC,
		releaseC, releaseCam, end),
	newCase(300, byPromise, "start-pause-resume-pause-reset-release",
		createP, prepareP, surfaceP, startCamera, startP, pauseP, resumeP, pauseP, resetP, stopOutput,
		releaseP, releaseCam, end),
	newCase(400, byCallback, "start-pause-resume-pause-reset-release",
		createC, prepareC, surfaceC, startCamera, startC, pauseC, resumeC, pauseC, resetC, stopOutput,
		callbackOff, releaseC, releaseCam, end),
	newCase(500, byPromise, "start-stop-reset-release",
		createP, prepareP, surfaceP, startCamera, startP, stopP, resetP, stopOutput, releaseP, releaseCam, end),
	newCase(600, byCallback, "start-stop-reset-release",
		createC, prepareC, surfaceC, startCamera, startC, stopC, resetC, stopOutput, releaseC, releaseCam, end),
	newCase(700, byPromise, "start-pause-stop-reset-release",
		createP, prepareP, surfaceP, startCamera, startP, pauseP, stopP, stopOutput, resetP, releaseP,
		releaseCam, end),
	newCase(800, byCallback, "start-pause-stop-reset-release",
		createC, prepareC, surfaceC, startCamera, startC, pauseC, stopC, stopOutput, resetC, releaseC,
		releaseCam, end),
	newCase(900, byPromise, "start-pause-resume-stop-reset-release",
		createP, prepareP, surfaceP, startCamera, startP, pauseP, resumeP, stopP, resetP, releaseP,
		stopOutput, releaseCam, end),
	newCase(1000, byCallback, "start-pause-resume-stop-reset-release",
		createC, prepareC, surfaceC, startCamera, startC, pauseC, resumeC, stopC, resetC, releaseC,
		stopOutput, releaseCam, end),
	newCase(1100, "prepare interface", "reset-prepare-xxx-END",
		createP, prepareP, surfaceP, startCamera, startP, resetP, stopOutput, releaseCam,
		prepareP, surfaceP, startCamera, startP, resetP, releaseP, stopOutput, releaseCam, end),
	newCase(1200, "prepare interface", "reset-prepare-xxx-END",
		createC, prepareC, surfaceC, startCamera, startC, resetC, stopOutput, releaseCam,
		prepareC, surfaceC, startCamera, startC, resetC, releaseC, stopOutput, releaseCam, end),
	newCase(1300, "prepare interface", "stop-prepare-xxx-END",
		createP, prepareP, surfaceP, startCamera, startP, stopP, stopOutput, releaseCam,
		prepareP, surfaceP, startCamera, startP, resetP, releaseP, stopOutput, releaseCam, end),
	newCase(1400, "callback interface", "stop-prepare-xxx-END",
		createC, prepareC, surfaceC, startCamera, startC, stopC, stopOutput, releaseCam,
		prepareC, surfaceC, startCamera, startC, resetC, stopOutput, releaseC, releaseCam, end),
}

// Catalog возвращает все функциональные кейсы по возрастанию номера.
// Возвращается копия: вызывающий может менять кейсы.
func Catalog() []domain.TestCase {
	out := make([]domain.TestCase, len(catalog))
	for i, tc := range catalog {
		tc.Steps = tc.StepsCopy()
		out[i] = tc
	}
	return out
}

// Find возвращает кейс по номеру (100, 200, ...).
func Find(number int) (domain.TestCase, error) {
	for _, tc := range catalog {
		if tc.Number == number {
			tc.Steps = tc.StepsCopy()
			return tc, nil
		}
	}
	return domain.TestCase{}, fmt.Errorf("%w: %d", ErrCaseNotFound, number)
}

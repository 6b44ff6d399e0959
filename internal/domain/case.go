package domain

import "fmt"

// CaseNamePrefix — общий префикс имён функциональных кейсов.
const CaseNamePrefix = "SUB_MULTIMEDIA_MEDIA_AVRECORDER_FUNC_"

// TestCase — тестовый кейс: именованная очередь шагов.
type TestCase struct {
	// Number — номер кейса (100, 200, ...).
	Number int `json:"number"`

	// Name — полное имя кейса.
	Name string `json:"name"`

	// Description — краткое описание сценария.
	Description string `json:"description"`

	// Level и Size — метки классификации (Level2, MediumTest).
	Level string `json:"level"`
	Size  string `json:"size"`

	// Steps — исходная последовательность токенов, заканчивается TokenEnd.
	Steps []Token `json:"steps"`
}

// CaseName строит полное имя кейса по номеру: 100 → SUB_..._FUNC_0100.
func CaseName(number int) string {
	return fmt.Sprintf("%s%04d", CaseNamePrefix, number)
}

// StepsCopy возвращает копию последовательности шагов.
// Раннер потребляет очередь, каталог должен оставаться нетронутым.
func (tc TestCase) StepsCopy() []Token {
	out := make([]Token, len(tc.Steps))
	copy(out, tc.Steps)
	return out
}

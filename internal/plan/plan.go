package plan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// DefaultName — имя плана без поля name.
const DefaultName = "CUSTOM_PLAN"

//go:embed plan.schema.json
var schemaJSON []byte

const schemaURL = "https://avrec.local/schemas/plan.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Plan — пользовательская очередь шагов.
//
//	name: smoke
//	steps:
//	  - create_promise
//	  - set_callback_off
//	  - release_promise
//	  - end
type Plan struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Steps       []string `yaml:"steps" json:"steps"`
}

// Load читает план из файла.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML-документ плана и проверяет его по схеме.
func Parse(data []byte) (*Plan, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plan yaml: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	return &p, nil
}

// Tokens разбирает шаги плана в токены и валидирует очередь.
func (p *Plan) Tokens() ([]domain.Token, error) {
	tokens := make([]domain.Token, 0, len(p.Steps))
	for i, s := range p.Steps {
		tok, err := domain.ParseToken(s)
		if err != nil {
			return nil, NewValidationError(i, "unknown step "+strconv.Quote(s), ErrUnknownToken)
		}
		tokens = append(tokens, tok)
	}
	if err := Validate(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// TestCase превращает план в кейс с номером 0.
func (p *Plan) TestCase() (domain.TestCase, error) {
	tokens, err := p.Tokens()
	if err != nil {
		return domain.TestCase{}, err
	}
	return domain.TestCase{
		Name:        p.Name,
		Description: p.Description,
		Steps:       tokens,
	}, nil
}

// Validate проверяет очередь токенов: не пустая и заканчивается END.
// Неизвестные числовые коды допустимы, раннер их пропускает.
func Validate(tokens []domain.Token) error {
	if len(tokens) == 0 {
		return NewValidationError(-1, "plan has no steps", ErrEmptySteps)
	}
	last := len(tokens) - 1
	if tokens[last] != domain.TokenEnd {
		return NewValidationError(last, "last step must be end, got "+tokens[last].String(), ErrMissingEnd)
	}
	return nil
}

func validateSchema(raw any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	// Схема проверяет JSON-модель документа: YAML приводится к ней через кодек JSON.
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	var payload any
	if err := json.Unmarshal(buf, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if err := s.Validate(payload); err != nil {
		return NewValidationError(-1, err.Error(), ErrSchema)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

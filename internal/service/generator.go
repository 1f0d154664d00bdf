package service

import (
	"errors"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/events"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/strength"
)

const (
	DefaultLength = 16
	MaxLength     = 128
)

var ErrInvalidLength = errors.New("password length must be between 1 and 128")

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	events events.Publisher
}

// NewGeneratorService creates a new GeneratorService that announces each
// generated password on pub. A nil pub discards events.
func NewGeneratorService(pub events.Publisher) *GeneratorService {
	if pub == nil {
		pub = events.Discard{}
	}
	return &GeneratorService{events: pub}
}

// Generate produces a password based on the given request and scores it.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.GeneratorOptions{
		Length:    req.Length,
		Uppercase: boolOrDefault(req.Uppercase, true),
		Lowercase: boolOrDefault(req.Lowercase, true),
		Numbers:   boolOrDefault(req.Numbers, true),
		Symbols:   boolOrDefault(req.Symbols, true),
	}

	if opts.Length == 0 {
		opts.Length = DefaultLength
	}
	if opts.Length < 0 || opts.Length > MaxLength {
		return model.GenerateResponse{}, ErrInvalidLength
	}

	password, err := crypto.Generate(opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	result := strength.Evaluate(password)
	s.events.Publish(events.TopicPasswordGenerated, events.PasswordGenerated{
		Length: len(password),
		Score:  result.Score,
		Label:  string(result.Label),
	})

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Strength: result,
	}, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

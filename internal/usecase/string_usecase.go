package usecase

import "context"

// SaveStringInput carries the raw string submitted by the client.
// Validation happens in the use case, not the handler, so every
// delivery surface gets the same rules.
type SaveStringInput struct {
	Value string
}

// SaveStringOutput returns the generated row ID of the saved string.
type SaveStringOutput struct {
	ID int64
}

// RandomStringOutput returns one stored string chosen uniformly at random.
type RandomStringOutput struct {
	Value string
}

// StringUsecase defines the business operations of the string store.
type StringUsecase interface {
	Save(ctx context.Context, input SaveStringInput) (*SaveStringOutput, error)
	Random(ctx context.Context) (*RandomStringOutput, error)
}

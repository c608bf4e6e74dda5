package validator

// Validator checks a struct against its declared validation tags.
type Validator interface {
	// Validate returns nil when data passes all constraints.
	Validate(data any) error
}

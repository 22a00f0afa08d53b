package mock

import "context"

// Describer is a test double for ai.Describer.
type Describer struct {
	// DescribeImageFunc is called by DescribeImage if set.
	// If nil, returns a fixed placeholder description.
	DescribeImageFunc func(ctx context.Context, mimeType string, data []byte) (string, error)

	callCount int
}

// NewDescriber creates a mock describer with default fixed behavior.
// Note: Returns concrete type to allow test assertions.
func NewDescriber() *Describer {
	return &Describer{}
}

// DescribeImage returns the injected behavior's result or a placeholder.
func (m *Describer) DescribeImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	m.callCount++

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, mimeType, data)
	}

	return "A diagram with unlabeled axes.", nil
}

// CallCount returns the number of times DescribeImage was called.
func (m *Describer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *Describer) Reset() {
	m.callCount = 0
	m.DescribeImageFunc = nil
}

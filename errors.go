package deepread

import "errors"

// ErrProviderRequired is returned when an AI provider is not provided.
var ErrProviderRequired = errors.New("AI provider required")

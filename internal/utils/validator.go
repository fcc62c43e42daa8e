package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	v   *validator.Validate
	mut sync.Mutex
)

// InitValidator initializes the validator singleton (idempotent).
func InitValidator() {
	mut.Lock()
	defer mut.Unlock()
	if v != nil {
		return
	}
	v = validator.New()
}

// ValidateStruct validates a struct using its validate tags.
func ValidateStruct(s interface{}) error {
	if v == nil {
		InitValidator()
	}
	return v.Struct(s)
}

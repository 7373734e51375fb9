// Package validation registers the custom binding validators used by the
// request models
package validation

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Initialize registers all custom validators. It is safe to call more than once.
func Initialize() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
			panic(err)
		}
	})
}

// validateNoSpaces rejects values made only of whitespace
func validateNoSpaces(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

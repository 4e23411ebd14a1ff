package api

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxNameLength = 100

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
}

// normalizeName trims the display name and checks the 1-100 rune bound.
func normalizeName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	length := len([]rune(name))
	return name, length >= 1 && length <= maxNameLength
}

// truncateRunes caps s at n runes; descriptions longer than the column are
// cut, not rejected.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

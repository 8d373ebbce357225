package validator

import (
	"ctchen222/tictak/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// difficulty: one of the known tiers, any case.
	validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := game.ParseDifficulty(fl.Field().String())
		return err == nil
	})
	// square: an index into the 3x3 board.
	validate.RegisterValidation("square", func(fl validator.FieldLevel) bool {
		return game.IsValidSquare(int(fl.Field().Int()))
	})
}

func GetValidator() *validator.Validate {
	return validate
}

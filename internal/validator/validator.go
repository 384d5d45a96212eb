// Package validator registers the custom binding tags used by request
// structs and CLI input.
package validator

import (
	"regexp"
	"sync"

	"spendwise/internal/export"
	"spendwise/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var rules = map[string]validator.Func{
	"hex_color":      validateHexColor,
	"payment_method": validatePaymentMethod,
	"budget_period":  validateBudgetPeriod,
	"export_format":  validateExportFormat,
	"iso_date":       validateISODate,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerAll(v)
	}
}

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// Engine returns a validator with the custom tags registered, for input
// that does not pass through Gin.
func Engine() *validator.Validate {
	standaloneOnce.Do(func() {
		standalone = validator.New()
		standalone.SetTagName("binding")
		registerAll(standalone)
	})
	return standalone
}

func registerAll(v *validator.Validate) {
	for tag, fn := range rules {
		_ = v.RegisterValidation(tag, fn)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return models.PaymentMethod(fl.Field().String()).Valid()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).Valid()
}

func validateExportFormat(fl validator.FieldLevel) bool {
	_, err := export.ParseFormat(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

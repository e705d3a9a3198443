// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches exchange symbols like AAPL, BRK-B, or BTC-USD.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9.\-^=]{1,12}$`)

// validRanges contains the chart ranges the quote API accepts.
var validRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true,
	"6mo": true, "1y": true, "5y": true, "max": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("trade_side", validateTradeSide)
		_ = v.RegisterValidation("alert_condition", validateAlertCondition)
		_ = v.RegisterValidation("chart_range", validateChartRange)
	}
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateTradeSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "buy", "sell":
		return true
	}
	return false
}

func validateAlertCondition(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "above", "below":
		return true
	}
	return false
}

func validateChartRange(fl validator.FieldLevel) bool {
	return validRanges[fl.Field().String()]
}

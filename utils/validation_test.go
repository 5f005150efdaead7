package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeValidationErrorEmail(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Email string `validate:"required,email"`
	}

	err := validate.Struct(TestReq{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error for invalid email")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "valid email address") {
		t.Errorf("expected user-friendly email error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Name      string `validate:"required"`
		OrderType string `validate:"required"`
	}

	msg := SanitizeValidationError(validate.Struct(TestReq{}))
	if !strings.Contains(msg, "name is required") {
		t.Errorf("expected name to be required, got: %s", msg)
	}
	if !strings.Contains(msg, "order_type is required") {
		t.Errorf("expected snake_case field name, got: %s", msg)
	}
	if strings.Contains(msg, "TestReq") {
		t.Errorf("expected struct name not to leak, got: %s", msg)
	}
}

func TestSanitizeValidationErrorOneOf(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		OrderType string `validate:"oneof=pickup delivery"`
	}

	msg := SanitizeValidationError(validate.Struct(TestReq{OrderType: "drone"}))
	if msg != "order_type must be one of: pickup, delivery" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorWrapped(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Quantity int `validate:"gte=1"`
	}

	err := fmt.Errorf("bind: %w", validate.Struct(TestReq{}))
	if msg := SanitizeValidationError(err); msg != "quantity must be 1 or more" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	if msg := SanitizeValidationError(nil); msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorOtherErrors(t *testing.T) {
	if msg := SanitizeValidationError(errors.New("invalid character 'x'")); msg != "Invalid request body" {
		t.Errorf("expected generic message, got: %s", msg)
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Name":       "name",
		"OrderType":  "order_type",
		"MenuItemID": "menu_item_id",
		"CVC":        "cvc",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q): expected %q, got %q", in, want, got)
		}
	}
}

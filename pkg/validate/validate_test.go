package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone"                 validate:"nullable,max=32"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Jane",
		Email:                "jane@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "phone")
}

func TestConfirmedMismatch(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name: "Jane", Email: "jane@example.com",
		Password: "secret123", PasswordConfirmation: "different",
	})
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestInWithMultipleValues(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=new,in_progress,done,max=20"`
	}
	assert.Empty(t, validate.Struct(in{Status: "in_progress"}))
	assert.Contains(t, validate.Struct(in{Status: "archived"}), "status")
}

func TestPointerFieldsAreOptional(t *testing.T) {
	type in struct {
		Rating *int    `json:"rating" validate:"nullable,between=1,5"`
		Title  *string `json:"title"  validate:"nullable,min=2"`
	}
	assert.Empty(t, validate.Struct(in{}))

	bad := 9
	assert.Contains(t, validate.Struct(in{Rating: &bad}), "rating")

	good := 4
	short := "x"
	errs := validate.Struct(in{Rating: &good, Title: &short})
	assert.NotContains(t, errs, "rating")
	assert.Contains(t, errs, "title")
}

func TestRequiredPointer(t *testing.T) {
	type in struct {
		Active *bool `json:"is_active" validate:"required"`
	}
	assert.Contains(t, validate.Struct(in{}), "is_active")
	f := false
	assert.Empty(t, validate.Struct(in{Active: &f}))
}

func TestDecimalComparisons(t *testing.T) {
	type in struct {
		Price decimal.Decimal `json:"price" validate:"gte=0"`
	}
	assert.Empty(t, validate.Struct(in{Price: decimal.RequireFromString("12.50")}))
	assert.Contains(t, validate.Struct(in{Price: decimal.RequireFromString("-1")}), "price")
}

func TestSliceCountAndDive(t *testing.T) {
	type spec struct {
		Name  string `json:"name"  validate:"required"`
		Value string `json:"value" validate:"required"`
	}
	type in struct {
		IDs   []uint `json:"ids"            validate:"required,max=2"`
		Specs []spec `json:"specifications" validate:"dive"`
	}

	errs := validate.Struct(in{
		IDs:   []uint{1, 2, 3},
		Specs: []spec{{Name: "Weight", Value: "1kg"}, {Name: "Color"}},
	})
	assert.Contains(t, errs, "ids")
	assert.Contains(t, errs, "specifications.1.value")
	assert.NotContains(t, errs, "specifications.0.name")
}

func TestRegisterCustomRule(t *testing.T) {
	validate.Register("even", func(f validate.Field) string {
		if f.Value.Int()%2 != 0 {
			return "The " + f.Name + " must be even."
		}
		return ""
	})
	type in struct {
		N int `json:"n" validate:"even"`
	}
	assert.Equal(t, "The n must be even.", validate.Struct(in{N: 3})["n"])
	assert.Empty(t, validate.Struct(in{N: 4}))
}

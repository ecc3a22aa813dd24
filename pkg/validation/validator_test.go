package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigninForm(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		err := Check(SigninForm{Email: "aruzhan@example.kz", Password: "secret123"})
		assert.NoError(t, err)
	})

	t.Run("field messages use json names", func(t *testing.T) {
		err := Check(SigninForm{Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		details := ToDetails(err)
		assert.Equal(t, "must be a valid email", details["email"])
		assert.Equal(t, "min length 8", details["password"])
	})
}

func TestSignupForm(t *testing.T) {
	form := SignupForm{
		Email:           "aruzhan@example.kz",
		Password:        "secret123",
		ConfirmPassword: "different",
		FirstName:       "A",
		Phone:           "87001234567",
	}
	details := ToDetails(Check(form))

	assert.Equal(t, "must be equal to Password field", details["confirmPassword"])
	assert.Equal(t, "must be at least 2 characters long", details["firstName"])
	assert.Equal(t, "must be a valid phone number", details["phone"])

	form.ConfirmPassword = form.Password
	form.FirstName = "Aruzhan"
	form.Phone = "+77001234567"
	assert.NoError(t, Check(form))
}

func TestPasswordChangeForm(t *testing.T) {
	details := ToDetails(Check(PasswordChangeForm{
		CurrentPassword: "secret123",
		NewPassword:     "secret123",
	}))
	assert.Equal(t, "must not be equal to CurrentPassword field", details["newPassword"])
}

func TestPaymentMethodForm(t *testing.T) {
	t.Run("unknown type rejected", func(t *testing.T) {
		details := ToDetails(Check(PaymentMethodForm{Type: "cheque", Title: "My cheque"}))
		assert.Equal(t, "must be one of: card, kaspi, apple_pay, google_pay, cash", details["type"])
	})

	t.Run("last4 must be four digits", func(t *testing.T) {
		err := Check(PaymentMethodForm{Type: "card", Title: "Visa Gold", Last4: "12a"})
		require.Error(t, err)
		assert.Contains(t, ToDetails(err), "last4")
	})

	t.Run("cash needs no last4", func(t *testing.T) {
		assert.NoError(t, Check(PaymentMethodForm{Type: "cash", Title: "Cash on pickup"}))
	})
}

func TestToDetailsNonValidationError(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"form": "invalid input"}, ToDetails(assert.AnError))
}

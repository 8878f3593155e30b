package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func variableOffering(min, max *decimal.Decimal) *models.Offering {
	return &models.Offering{
		ID:            uuid.New(),
		Title:         "Supporting Membership",
		PricingMode:   enums.PricingModeVariable,
		MinPrice:      min,
		MaxPrice:      max,
		Currency:      enums.CurrencyUSD,
		EmailRequired: enums.EmailRequired,
	}
}

func variantedOffering(prices ...*decimal.Decimal) *models.Offering {
	o := &models.Offering{
		ID:            uuid.New(),
		Title:         "T-Shirt",
		PricingMode:   enums.PricingModeFixed,
		Currency:      enums.CurrencyUSD,
		EmailRequired: enums.EmailNone,
	}
	for i, p := range prices {
		o.Variants = append(o.Variants, models.Variant{
			ID:             uuid.New(),
			OfferingID:     o.ID,
			Name:           "Option",
			SuggestedPrice: p,
			Position:       i,
		})
	}
	return o
}

func validInput() Input {
	return Input{
		For:    "Pat Example",
		Email:  "pat@example.com",
		Amount: "25.00",
	}
}

func TestValidateRequiresName(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	input := validInput()
	input.For = ""

	result := Validate(offering, input)
	if !result.Errors[FieldFor] {
		t.Fatal("expected for-name error")
	}
	if result.Messages[0] != "Please provide a name." {
		t.Fatalf("unexpected message %q", result.Messages[0])
	}
}

func TestValidateEmailMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		required enums.EmailRequirement
		email    string
		want     string
	}{
		{"required and missing", enums.EmailRequired, "", "Please provide a valid email."},
		{"required and malformed", enums.EmailRequired, "not-an-email", "Please provide a valid email."},
		{"optional and malformed", enums.EmailOptional, "not-an-email", "That email doesn't look quite right."},
		{"optional and missing", enums.EmailOptional, "", ""},
		{"not collected", enums.EmailNone, "", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			offering := variableOffering(nil, nil)
			offering.EmailRequired = tc.required
			input := validInput()
			input.Email = tc.email

			result := Validate(offering, input)
			if tc.want == "" {
				if result.Errors[FieldEmail] {
					t.Fatalf("unexpected email error: %v", result.Messages)
				}
				return
			}
			if !result.Errors[FieldEmail] {
				t.Fatal("expected email error")
			}
			if got := result.Messages[0]; got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateAmountAgainstBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		min    *decimal.Decimal
		max    *decimal.Decimal
		amount string
		want   string
	}{
		{"below minimum", dec("10"), nil, "5", "The minimum amount is USD 10.00"},
		{"at minimum", dec("10"), nil, "10.00", ""},
		{"above maximum", dec("10"), dec("100"), "250.00", "The maximum amount is USD 100.00"},
		{"malformed single decimal", nil, nil, "10.0", "The amount value looks a bit fishy"},
		{"malformed currency sign", nil, nil, "$10", "The amount value looks a bit fishy"},
		{"empty", nil, nil, "", "Please provide an amount."},
		{"zero", nil, nil, "0", "Please choose an amount greater than zero."},
		{"zero with cents", nil, nil, "0.00", "Please choose an amount greater than zero."},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			offering := variableOffering(tc.min, tc.max)
			input := validInput()
			input.Amount = tc.amount

			result := Validate(offering, input)
			if tc.want == "" {
				if result.Errors[FieldAmount] {
					t.Fatalf("unexpected amount error: %v", result.Messages)
				}
				return
			}
			if !result.Errors[FieldAmount] {
				t.Fatalf("expected amount error, got %v", result.Messages)
			}
			if got := result.Messages[0]; got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateZeroAlwaysFails(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	offering.PricingMode = enums.PricingModeSuggested
	input := validInput()
	input.Amount = "0"

	result := Validate(offering, input)
	if !result.Errors[FieldAmount] {
		t.Fatal("zero amount must always fail, even without a suggested price")
	}
}

func TestValidateVariantSelectionRequired(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(dec("20"), nil)
	input := Input{For: "Pat Example", Amount: "20.00"}

	result := Validate(offering, input)
	if !result.Errors[FieldVariantID] {
		t.Fatal("expected variant selection error")
	}
	found := false
	for _, m := range result.Messages {
		if m == "Please choose an option from this list" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected option message, got %v", result.Messages)
	}
}

func TestFixedPriceVariantOverridesBounds(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(dec("20"))
	offering.MinPrice = dec("50")

	input := Input{
		For:       "Pat Example",
		VariantID: offering.Variants[0].ID.String(),
		Amount:    "999.99",
	}

	result := Validate(offering, input)
	if !result.OK() {
		t.Fatalf("expected derived variant price to win, got %v", result.Messages)
	}

	derived, ok := DeriveAmount(offering, &offering.Variants[0])
	if !ok {
		t.Fatal("expected fixed-price variant to derive the amount")
	}
	if derived != "20.00" {
		t.Fatalf("expected derived amount 20.00, got %s", derived)
	}
}

func TestPriceYourOwnVariantStillEntersAmount(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(nil)
	input := Input{
		For:       "Pat Example",
		VariantID: offering.Variants[0].ID.String(),
		Amount:    "",
	}

	result := Validate(offering, input)
	if !result.Errors[FieldAmount] {
		t.Fatal("price-your-own variant should still demand an amount")
	}
}

func TestVariantListIsNeverVariable(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(nil)
	offering.MinPrice = dec("100")
	input := Input{
		For:       "Pat Example",
		VariantID: offering.Variants[0].ID.String(),
		Amount:    "5.00",
	}

	result := Validate(offering, input)
	if result.Errors[FieldAmount] {
		t.Fatalf("offering bounds must not apply to varianted offerings: %v", result.Messages)
	}
}

func TestValidateAddressFields(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	offering.AddressRequired = true
	input := validInput()

	result := Validate(offering, input)
	wantMessages := map[string]bool{
		"Please provide a valid address":        false,
		"Surely your address must have a city.": false,
		"State and/or province is missing.":     false,
		"Zip or postal code is missing.":        false,
	}
	for _, m := range result.Messages {
		if _, ok := wantMessages[m]; ok {
			wantMessages[m] = true
		}
	}
	for msg, seen := range wantMessages {
		if !seen {
			t.Errorf("missing address message %q in %v", msg, result.Messages)
		}
	}
}

func TestValidateAddressRegionOnlyForUSAndCanada(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	offering.AddressRequired = true
	input := validInput()
	input.StreetLine1 = "1 High Street"
	input.City = "Leeds"
	input.Country = "United Kingdom"

	result := Validate(offering, input)
	if result.Errors[FieldStateOrProvince] || result.Errors[FieldZipOrPostalCode] {
		t.Fatalf("region/zip must not be required outside US/Canada: %v", result.Messages)
	}
}

func TestSnailMailOptInPullsInAddress(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	input := validInput()
	input.SnailMail = true

	required := RequiredFields(offering, input)
	if !required[FieldStreetLine1] || !required[FieldCity] {
		t.Fatal("snail mail opt-in should require address fields")
	}
	if !required[FieldStateOrProvince] || !required[FieldZipOrPostalCode] {
		t.Fatal("default country is United States, so region fields apply")
	}
}

func TestRequiredFieldsDropsAmountForFixedVariant(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(dec("20"))
	input := Input{VariantID: offering.Variants[0].ID.String()}

	required := RequiredFields(offering, input)
	if required[FieldAmount] {
		t.Fatal("derived amounts must not be in the required set")
	}
	if !required[FieldVariantID] {
		t.Fatal("varianted offerings require a variant selection")
	}
}

func TestRequiredFieldsAge(t *testing.T) {
	t.Parallel()

	offering := variableOffering(nil, nil)
	offering.AgeRequired = true

	required := RequiredFields(offering, Input{})
	if !required[FieldAge] {
		t.Fatal("expected age to be required")
	}
}

func TestPriceBoundsVariantPinsBothEnds(t *testing.T) {
	t.Parallel()

	offering := variantedOffering(dec("20"))
	min, max := PriceBounds(offering, &offering.Variants[0])
	if min == nil || max == nil {
		t.Fatal("fixed-price variant should pin both bounds")
	}
	if min.String() != "20.00" || max.String() != "20.00" {
		t.Fatalf("expected 20.00/20.00, got %s/%s", min, max)
	}
}

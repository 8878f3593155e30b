// Package pricing resolves which fields an offering requires, derives and
// bounds prices, and validates partial user input. All functions are pure:
// they never touch storage and never return a Go error.
package pricing

import (
	"regexp"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
	"github.com/calderwood/conreg-backend/pkg/money"
)

// Field names a single input of the registration form.
type Field string

const (
	FieldFor             Field = "for"
	FieldEmail           Field = "email"
	FieldAmount          Field = "amount"
	FieldVariantID       Field = "variantId"
	FieldAge             Field = "age"
	FieldStreetLine1     Field = "streetLine1"
	FieldCity            Field = "city"
	FieldStateOrProvince Field = "stateOrProvince"
	FieldZipOrPostalCode Field = "zipOrPostalCode"
)

// Input is the partial form state being resolved.
type Input struct {
	For             string
	Email           string
	Amount          string
	VariantID       string
	Age             string
	StreetLine1     string
	StreetLine2     string
	City            string
	StateOrProvince string
	ZipOrPostalCode string
	Country         string
	Volunteer       bool
	Newsletter      bool
	SnailMail       bool
}

// Result carries the per-field error map and the user-facing messages.
// An empty result means the item is admissible.
type Result struct {
	Errors   map[Field]bool
	Messages []string
}

// OK reports whether no field failed validation.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) fail(field Field, message string) {
	if r.Errors == nil {
		r.Errors = map[Field]bool{}
	}
	r.Errors[field] = true
	r.Messages = append(r.Messages, message)
}

// kind is the closed set of pricing shapes an offering can take. An offering
// with variants is always varianted, whatever its declared mode.
type kind int

const (
	kindFixed kind = iota
	kindSuggested
	kindVariable
	kindVarianted
)

func classify(offering *models.Offering) kind {
	if offering.HasVariants() {
		return kindVarianted
	}
	switch offering.PricingMode {
	case enums.PricingModeFixed:
		return kindFixed
	case enums.PricingModeSuggested:
		return kindSuggested
	case enums.PricingModeVariable:
		return kindVariable
	default:
		return kindVariable
	}
}

const defaultCountry = "United States"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RequiredFields computes the field set the offering demands for the given
// input. SnailMail opt-in pulls in the address fields; a chosen fixed-price
// variant removes amount because it is derived, not entered.
func RequiredFields(offering *models.Offering, input Input) map[Field]bool {
	required := map[Field]bool{FieldFor: true}

	if offering.EmailRequired == enums.EmailRequired {
		required[FieldEmail] = true
	}
	if offering.HasVariants() {
		required[FieldVariantID] = true
	}
	if offering.AgeRequired {
		required[FieldAge] = true
	}
	if addressRequired(offering, input) {
		required[FieldStreetLine1] = true
		required[FieldCity] = true
		if countryNeedsRegion(country(input)) {
			required[FieldStateOrProvince] = true
			required[FieldZipOrPostalCode] = true
		}
	}
	if _, derived := DeriveAmount(offering, chosenVariant(offering, input)); !derived {
		required[FieldAmount] = true
	}

	return required
}

// PriceBounds returns the admissible (min, max) for the offering or chosen
// variant. Variant pricing overrides offering bounds entirely: a fixed-price
// variant pins both ends, a price-your-own variant is unbounded. Nil means
// no bound on that end.
func PriceBounds(offering *models.Offering, variant *models.Variant) (min, max *money.Amount) {
	switch classify(offering) {
	case kindVarianted:
		if variant != nil && variant.SuggestedPrice != nil {
			pinned := money.FromDecimal(*variant.SuggestedPrice)
			return &pinned, &pinned
		}
		return nil, nil
	case kindFixed:
		if offering.SuggestedPrice != nil {
			pinned := money.FromDecimal(*offering.SuggestedPrice)
			return &pinned, &pinned
		}
		return nil, nil
	case kindSuggested, kindVariable:
		if offering.MinPrice != nil {
			m := money.FromDecimal(*offering.MinPrice)
			min = &m
		}
		if offering.MaxPrice != nil {
			m := money.FromDecimal(*offering.MaxPrice)
			max = &m
		}
		return min, max
	}
	return nil, nil
}

// DeriveAmount returns the auto-populated amount string when the price is
// fixed by the chosen variant or by a fixed-mode offering. The second return
// is false when the amount must be entered by the user.
func DeriveAmount(offering *models.Offering, variant *models.Variant) (string, bool) {
	switch classify(offering) {
	case kindVarianted:
		if variant != nil && variant.SuggestedPrice != nil {
			return money.FromDecimal(*variant.SuggestedPrice).String(), true
		}
		return "", false
	case kindFixed:
		if offering.SuggestedPrice != nil {
			return money.FromDecimal(*offering.SuggestedPrice).String(), true
		}
		return "", false
	case kindSuggested, kindVariable:
		return "", false
	}
	return "", false
}

// Validate checks the input against the offering's rules. Every field is
// evaluated independently so multiple errors can coexist.
func Validate(offering *models.Offering, input Input) Result {
	var result Result

	if msg := validateFor(input.For); msg != "" {
		result.fail(FieldFor, msg)
	}
	if msg := validateEmail(offering, input.Email); msg != "" {
		result.fail(FieldEmail, msg)
	}

	variant := chosenVariant(offering, input)
	amount := input.Amount
	if derived, ok := DeriveAmount(offering, variant); ok {
		amount = derived
	}
	if msg := validateAmount(offering, variant, amount); msg != "" {
		result.fail(FieldAmount, msg)
	}

	if offering.HasVariants() && variant == nil {
		result.fail(FieldVariantID, "Please choose an option from this list")
	}

	if addressRequired(offering, input) {
		if input.StreetLine1 == "" {
			result.fail(FieldStreetLine1, "Please provide a valid address")
		}
		if input.City == "" {
			result.fail(FieldCity, "Surely your address must have a city.")
		}
		if countryNeedsRegion(country(input)) {
			if input.StateOrProvince == "" {
				result.fail(FieldStateOrProvince, "State and/or province is missing.")
			}
			if input.ZipOrPostalCode == "" {
				result.fail(FieldZipOrPostalCode, "Zip or postal code is missing.")
			}
		}
	}

	return result
}

func validateFor(value string) string {
	if value == "" {
		return "Please provide a name."
	}
	return ""
}

func validateEmail(offering *models.Offering, value string) string {
	valid := emailPattern.MatchString(value)
	if offering.EmailRequired == enums.EmailRequired && (value == "" || !valid) {
		return "Please provide a valid email."
	}
	if value != "" && !valid {
		return "That email doesn't look quite right."
	}
	return ""
}

func validateAmount(offering *models.Offering, variant *models.Variant, value string) string {
	if value != "" && !money.IsWellFormed(value) {
		return "The amount value looks a bit fishy"
	}
	if value == "" {
		return "Please provide an amount."
	}

	amount, err := money.Parse(value)
	if err != nil {
		return "The amount value looks a bit fishy"
	}

	min, max := PriceBounds(offering, variant)
	if bounded(offering) {
		if min != nil && amount.LessThan(*min) {
			return "The minimum amount is " + money.Display(*min, offering.Currency)
		}
		if max != nil && amount.GreaterThan(*max) {
			return "The maximum amount is " + money.Display(*max, offering.Currency)
		}
	}
	if amount.IsZero() {
		return "Please choose an amount greater than zero."
	}
	return ""
}

// bounded reports whether offering-level min/max apply to the entered amount.
// Variants are never treated as variable pricing at the offering level.
func bounded(offering *models.Offering) bool {
	switch classify(offering) {
	case kindVarianted, kindFixed:
		return false
	case kindSuggested, kindVariable:
		return offering.MinPrice != nil || offering.MaxPrice != nil
	}
	return false
}

func addressRequired(offering *models.Offering, input Input) bool {
	return offering.AddressRequired || input.SnailMail
}

func country(input Input) string {
	if input.Country == "" {
		return defaultCountry
	}
	return input.Country
}

func countryNeedsRegion(country string) bool {
	return country == "United States" || country == "Canada"
}

func chosenVariant(offering *models.Offering, input Input) *models.Variant {
	if input.VariantID == "" {
		return nil
	}
	for i := range offering.Variants {
		if offering.Variants[i].ID.String() == input.VariantID {
			return &offering.Variants[i]
		}
	}
	return nil
}

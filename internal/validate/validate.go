// Package validate holds the field rules for entity forms.
//
// Rules are structural only (presence and length). Each returns "" when the
// value is acceptable, otherwise the message of the first rule violated,
// localized through the Validator's printer.
package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Field labels. These are also catalog keys.
const (
	LabelInstallationID = "Installation ID"
	LabelAddress        = "Address"
	LabelCustomerName   = "Customer name"
	LabelTitle          = "Title"
	LabelValue          = "Value"
	LabelUsername       = "Username"
	LabelPassword       = "Password"
	LabelEmail          = "Email"
)

// Message keys.
const (
	msgRequired = "%s is required"
	msgTooShort = "%s must be at least %d characters"
	msgTooLong  = "%s must be at most %d characters"
	msgNumber   = "%s must be a number"
)

// Length bounds, counted in runes.
const (
	IDMin           = 3
	IDMax           = 50
	AddressMin      = 3
	AddressMax      = 255
	CustomerNameMin = 2
	CustomerNameMax = 100
)

var danish = map[string]string{
	msgRequired: "%s er påkrævet",
	msgTooShort: "%s skal være mindst %d tegn",
	msgTooLong:  "%s må højst være %d tegn",
	msgNumber:   "%s skal være et tal",

	LabelInstallationID: "Installations-ID",
	LabelAddress:        "Adresse",
	LabelCustomerName:   "Kundenavn",
	LabelTitle:          "Titel",
	LabelValue:          "Værdi",
	LabelUsername:       "Brugernavn",
	LabelPassword:       "Adgangskode",
	LabelEmail:          "Email",
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range danish {
		if err := b.SetString(language.Danish, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}

// Validator evaluates field rules in one language.
type Validator struct {
	p *message.Printer
}

// New returns a Validator for lang ("en", "da", or any BCP 47 tag).
// Unsupported languages fall back to English.
func New(lang string) *Validator {
	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		if base, _ := t.Base(); base.String() == "da" {
			tag = language.Danish
		}
	}
	return &Validator{p: message.NewPrinter(tag, message.Catalog(messages))}
}

func (v *Validator) label(l string) string {
	return v.p.Sprintf(l)
}

// Required fails when s is blank.
func (v *Validator) Required(label, s string) string {
	if strings.TrimSpace(s) == "" {
		return v.p.Sprintf(msgRequired, v.label(label))
	}
	return ""
}

// Length checks presence and then the rune length of s against [lo, hi].
func (v *Validator) Length(label, s string, lo, hi int) string {
	if msg := v.Required(label, s); msg != "" {
		return msg
	}
	n := utf8.RuneCountInString(s)
	if n < lo {
		return v.p.Sprintf(msgTooShort, v.label(label), lo)
	}
	if n > hi {
		return v.p.Sprintf(msgTooLong, v.label(label), hi)
	}
	return ""
}

// ID validates an installation ID.
func (v *Validator) ID(s string) string {
	return v.Length(LabelInstallationID, s, IDMin, IDMax)
}

// Address validates an installation address.
func (v *Validator) Address(s string) string {
	return v.Length(LabelAddress, s, AddressMin, AddressMax)
}

// CustomerName validates an installation's customer name.
func (v *Validator) CustomerName(s string) string {
	return v.Length(LabelCustomerName, s, CustomerNameMin, CustomerNameMax)
}

// TaskTitle validates a task title.
func (v *Validator) TaskTitle(s string) string {
	return v.Required(LabelTitle, s)
}

// TestValue validates a measurement value as typed into a form.
func (v *Validator) TestValue(s string) string {
	if msg := v.Required(LabelValue, s); msg != "" {
		return msg
	}
	if _, err := ParseNumber(s); err != nil {
		return v.p.Sprintf(msgNumber, v.label(LabelValue))
	}
	return ""
}

// ParseNumber parses a decimal number, accepting a comma as the decimal
// separator.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	return strconv.ParseFloat(s, 64)
}

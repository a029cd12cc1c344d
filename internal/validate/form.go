package validate

import "errors"

// Rule checks one field value and returns "" or an error message.
type Rule func(string) string

// Form tracks field values and which fields have been touched. A field's
// error is only reported once it has been blurred or a submit was
// attempted.
type Form struct {
	order   []string
	rules   map[string]Rule
	values  map[string]string
	touched map[string]bool
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{
		rules:   make(map[string]Rule),
		values:  make(map[string]string),
		touched: make(map[string]bool),
	}
}

// Field registers a field and its rule. Fields are evaluated in
// registration order.
func (f *Form) Field(name string, rule Rule) *Form {
	if _, ok := f.rules[name]; !ok {
		f.order = append(f.order, name)
	}
	f.rules[name] = rule
	return f
}

// Set stores the current value of a field without touching it.
func (f *Form) Set(name, value string) {
	f.values[name] = value
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// Blur marks a field as touched.
func (f *Form) Blur(name string) {
	f.touched[name] = true
}

// Touched reports whether a field has been touched.
func (f *Form) Touched(name string) bool {
	return f.touched[name]
}

// Error returns the field's message if it has been touched.
func (f *Form) Error(name string) string {
	if !f.touched[name] {
		return ""
	}
	rule, ok := f.rules[name]
	if !ok {
		return ""
	}
	return rule(f.values[name])
}

// Submit touches every field and reports whether all of them pass.
func (f *Form) Submit() bool {
	for _, name := range f.order {
		f.touched[name] = true
	}
	return f.Valid()
}

// Errors returns the messages of every touched field that fails.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string)
	for _, name := range f.order {
		if msg := f.Error(name); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// Valid reports whether every field passes, touched or not.
func (f *Form) Valid() bool {
	for _, name := range f.order {
		if f.rules[name](f.values[name]) != "" {
			return false
		}
	}
	return true
}

// Huh adapts a field to a huh input's Validate hook. huh calls it when the
// input loses focus and again on submit, which is when the field counts as
// touched.
func (f *Form) Huh(name string) func(string) error {
	return func(s string) error {
		f.Set(name, s)
		f.Blur(name)
		if msg := f.Error(name); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

// Package validation turns raw form input into typed, checked values.
//
// Handlers parse a request into one of the form structs (CategoryForm,
// CategoryNameForm, ItemForm), which hold the posted strings untouched.
// A Validator sanitizes those strings, converts numeric fields and checks
// every constraint without stopping at the first failure. The result is a
// typed input struct plus an ordered list of FieldError values, one per
// failing field, in form order.
//
// # Usage
//
//	v := validation.New()
//	input, errs := v.Category(validation.CategoryForm{Name: r.PostFormValue("name")})
//	if errs.Any() {
//	    // re-render the form with input and errs
//	}
//
// The Validator holds no request state and is safe for concurrent use.
package validation

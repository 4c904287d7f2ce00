package resources

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/artpar/inventory/internal/core/validation"
	"github.com/manyminds/api2go"
)

// =============================================================================
// Response Helper
// =============================================================================

// Response implements api2go.Responder for custom responses.
type Response struct {
	Code int
	Res  interface{}
	Meta map[string]interface{}
}

// Metadata returns additional metadata for the response.
func (r *Response) Metadata() map[string]interface{} {
	return r.Meta
}

// Result returns the response data.
func (r *Response) Result() interface{} {
	return r.Res
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.Code
}

// =============================================================================
// Errors
// =============================================================================

// attributePointers maps form field names to JSON:API source pointers.
var attributePointers = map[string]string{
	"name":         "/data/attributes/name",
	"description":  "/data/attributes/description",
	"category":     "/data/relationships/category",
	"priceInCents": "/data/attributes/price_in_cents",
	"quantity":     "/data/attributes/quantity",
}

// validationFailed reports every field error as one JSON:API error object.
func validationFailed(errs validation.Errors) (api2go.Responder, error) {
	status := strconv.Itoa(http.StatusUnprocessableEntity)
	httpErr := api2go.NewHTTPError(errs, "Validation failed", http.StatusUnprocessableEntity)
	httpErr.Errors = make([]api2go.Error, 0, len(errs))
	for _, fe := range errs {
		e := api2go.Error{Status: status, Title: fe.Message}
		if pointer, ok := attributePointers[fe.Field]; ok {
			e.Source = &api2go.ErrorSource{Pointer: pointer}
		}
		httpErr.Errors = append(httpErr.Errors, e)
	}
	return &Response{Code: http.StatusUnprocessableEntity}, httpErr
}

func notFound(entity, title string) (api2go.Responder, error) {
	return &Response{Code: http.StatusNotFound}, api2go.NewHTTPError(
		fmt.Errorf("%s not found", entity),
		title,
		http.StatusNotFound,
	)
}

func invalidBody() (api2go.Responder, error) {
	return &Response{Code: http.StatusBadRequest}, api2go.NewHTTPError(
		errors.New("invalid request body"),
		"Invalid request body",
		http.StatusBadRequest,
	)
}

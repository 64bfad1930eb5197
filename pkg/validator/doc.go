// Package validator checks user supplied values such as registration form
// fields.
//
// A Rule pairs a deferred Check with the ValidationError it reports. Apply
// runs rules and collects the failures into ValidationErrors, which
// implements error, so a whole form is reported through one error return.
// Each ValidationError carries a Code ("required", "max") and Params so hosts
// can localise messages.
//
// # Rule specs
//
// Account drivers describe their registration fields with short rule
// strings ("required", "string", "max:255", "in:a,b"). FromSpecs turns such a
// list into rules for one field:
//
//	rules, err := validator.FromSpecs("name", data["name"], []string{"required", "string", "max:255"})
//	if err != nil {
//	    return err // unknown or malformed spec
//	}
//	if err := validator.Apply(rules...); err != nil {
//	    fields := validator.ExtractValidationErrors(err).FieldErrors()
//	    _ = fields // map[field][]message
//	}
//
// Supported specs: required, nullable, string, numeric, accepted, email, url,
// phone, alpha_num, in:a,b, min:N, max:N and size:N. Lengths are counted in
// characters, not bytes.
//
// # Error Handling
//
// Use ExtractValidationErrors or IsValidationError to detect validation
// failures behind wrapped errors. Individual field errors can be inspected
// with Has, Get, Fields and FieldErrors.
package validator

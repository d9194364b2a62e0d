package httperr

import "errors"

// BusinessError carries a stable code for the HTTP layer and, when the
// failure came from somewhere the user must see verbatim (a backend error
// body), the original text in Detail.
type BusinessError struct {
	Code   string
	Detail string
}

func (e BusinessError) Error() string {
	if e.Detail != "" {
		return e.Code + ": " + e.Detail
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessDetail(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code of err, or "" for any other error.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// DetailOf returns the verbatim detail attached to a business error.
func DetailOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Detail
	}
	return ""
}

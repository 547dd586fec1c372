package app

import "fmt"

// DomainError carries an HTTP status and stable error code for conditions
// raised above the sheet layer, such as an unconfigured archive or external
// sheet source. Sheet errors are mapped separately in mapError.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

package model

import "fmt"

// NetworkError is any failed call to an upstream service.
type NetworkError struct {
	Service string
	Err     error
}

func NewNetworkError(service string, err error) *NetworkError {
	return &NetworkError{Service: service, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports upstream data that cannot be right, such as a
// transaction without outputs or a truncated oracle message.
type DataIntegrityError struct {
	Reason string
}

func NewDataIntegrityError(reason string) *DataIntegrityError {
	return &DataIntegrityError{Reason: reason}
}

func (e *DataIntegrityError) Error() string {
	return "data integrity: " + e.Reason
}

// InsufficientFundsError means the wallet cannot cover a contract after fees.
type InsufficientFundsError struct {
	Required  string
	Available string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %s BCH, have %s BCH", e.Required, e.Available)
}

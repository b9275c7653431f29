package dehu

import (
	"errors"
	"fmt"
)

var (
	ErrEndpointRequired = errors.New("endpoint url is required")
	ErrAPIKeyRequired   = errors.New("api key is required")
)

// ClientCreationError reports that a session to the remote service could not be built.
type ClientCreationError struct {
	Err error
}

func (e *ClientCreationError) Error() string {
	return fmt.Sprintf("error creating DEHU client: %v", e.Err)
}

func (e *ClientCreationError) Unwrap() error { return e.Err }

// FaultError is a SOAP fault returned by the remote service.
type FaultError struct {
	Operation string
	Code      string
	Message   string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s fault %s: %s", e.Operation, e.Code, e.Message)
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrIDRequired            = errors.New("id is required")
	ErrNotFound              = errors.New("notification not found")
	ErrNoActiveConfiguration = errors.New("no active DEHU configuration found")
	ErrNoReceiptAvailable    = errors.New("no receipt available for this notification")
	ErrInvalidStatus         = errors.New("invalid notification status")
	ErrNoDocument            = errors.New("response carries no document")
)

// FetchError wraps any failure of a pending-notification fetch.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching DEHU notifications: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RemoteRejectionError is a well-formed reply whose response code is not "200".
type RemoteRejectionError struct {
	Code        string
	Description string
}

func (e *RemoteRejectionError) Error() string {
	return fmt.Sprintf("%s - %s", e.Code, e.Description)
}

// ProcessingError wraps any failure while accepting a notification.
type ProcessingError struct {
	Key string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("error processing notification %s: %v", e.Key, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// ReceiptDownloadError wraps any failure while downloading a receipt PDF.
type ReceiptDownloadError struct {
	Key string
	Err error
}

func (e *ReceiptDownloadError) Error() string {
	return fmt.Sprintf("error downloading receipt for notification %s: %v", e.Key, e.Err)
}

func (e *ReceiptDownloadError) Unwrap() error { return e.Err }

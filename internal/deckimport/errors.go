package deckimport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned for input that is not a URL on a supported site.
	ErrInvalidURL = errors.New("invalid deck URL")

	// ErrUnsupportedProvider is returned when no provider is registered for the detected site.
	ErrUnsupportedProvider = errors.New("unsupported deck platform")

	// ErrDeckIDNotFound is returned when the deck id cannot be extracted from the URL.
	ErrDeckIDNotFound = errors.New("could not extract deck id from URL")

	// ErrDeckUnavailable is returned when every provider endpoint variant failed.
	ErrDeckUnavailable = errors.New("could not obtain deck")
)

// FetchError describes the final failed attempt against a provider.
type FetchError struct {
	Provider   string
	DeckID     string
	StatusCode int // 0 when the last attempt failed before a response
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: %s deck %s (HTTP %d: %s)", ErrDeckUnavailable, e.Provider, e.DeckID, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s deck %s (HTTP %d)", ErrDeckUnavailable, e.Provider, e.DeckID, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s deck %s: %v", ErrDeckUnavailable, e.Provider, e.DeckID, e.Err)
	}
	return fmt.Sprintf("%s: %s deck %s", ErrDeckUnavailable, e.Provider, e.DeckID)
}

// Is lets errors.Is(err, ErrDeckUnavailable) match.
func (e *FetchError) Is(target error) bool {
	return target == ErrDeckUnavailable
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

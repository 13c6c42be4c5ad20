package oauth

import "fmt"

// ExchangeError is the single failure kind for a token exchange. No
// distinction is made between missing input, network failure, vendor error
// status or malformed body; the cause is carried as a wrapped inner error.
type ExchangeError struct {
	Provider string
	Err      error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed for %s: %v", e.Provider, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

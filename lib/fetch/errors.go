package fetch

import "fmt"

// NetworkError is returned by Client.Get once every retry attempt has
// been exhausted. It carries the total attempt count and the last
// underlying failure.
type NetworkError struct {
	URL      string
	Attempts int
	// LastStatus is the HTTP status of the final attempt, zero when
	// the failure happened below the HTTP layer.
	LastStatus int
	Err        error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts failed: %s", e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

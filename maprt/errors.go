package maprt

import "fmt"

// ArgumentNullError is raised when a nil source reaches a target that
// cannot hold it.
type ArgumentNullError struct {
	// Subject is the source expression that was nil, e.g. "source.Customer".
	Subject string
}

func (e *ArgumentNullError) Error() string {
	return fmt.Sprintf("value cannot be nil: %s", e.Subject)
}

// NotImplementedError is raised by a mapping the generator could not build.
type NotImplementedError struct {
	// Mapping names the method or type pair.
	Mapping string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("mapping not implemented: %s", e.Mapping)
}

// ArgumentNull returns the failure for a nil subject.
func ArgumentNull(subject string) error {
	return &ArgumentNullError{Subject: subject}
}

// NotImplemented returns the failure of an unbuilt mapping.
func NotImplemented(mapping string) error {
	return &NotImplementedError{Mapping: mapping}
}

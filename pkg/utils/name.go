package utils

import "strings"

const (
	DefaultFirstName = "Guest"
	DefaultLastName  = "User"
)

// SplitCustomerName takes the first two space separated words of name.
func SplitCustomerName(name string) (firstName string, lastName string) {
	parts := strings.Fields(name)

	firstName, lastName = DefaultFirstName, DefaultLastName
	if len(parts) > 0 {
		firstName = parts[0]
	}
	if len(parts) > 1 {
		lastName = parts[1]
	}

	return
}

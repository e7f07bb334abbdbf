package execution

// Case describes a single named stdin/expected-stdout pair of a suite.
//
// A nil Expected marks the case as display-only: the program output is shown
// but never judged.
type Case struct {
	Name     string
	Input    string
	Expected *string
}

// HasExpected reports whether the case carries an expected output to compare against.
func (c Case) HasExpected() bool {
	return c.Expected != nil
}

// ExpectedOutput returns a pointer to a copy of s, for building cases inline.
func ExpectedOutput(s string) *string {
	return &s
}

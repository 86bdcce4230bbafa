package parser

// Pair is a single decoded key/value entry of a connection string.
type Pair struct {
	Key   string
	Value string
}

// Issue describes input the parser tolerated instead of rejecting.
type Issue struct {
	// Offset is the position in bytes of the start of the offending entry.
	Offset int
	Err    error
}

func (i Issue) Error() string { return i.Err.Error() }

func (i Issue) Unwrap() error { return i.Err }

package common

// UnknownStr is the String() value for out-of-range enum values.
const UnknownStr = "unknown"

// Plural returns singular when n == 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}

	return singular + "s"
}

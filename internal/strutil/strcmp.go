package strutil

// CmpFold compares two ASCII strings case-insensitively.
func CmpFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}

	return true
}

// HasPrefixFold is the case-insensitive strings.HasPrefix.
func HasPrefixFold(str, prefix string) bool {
	return len(str) >= len(prefix) && CmpFold(str[:len(prefix)], prefix)
}

// ContainsFold reports whether substr is within str, ignoring ASCII case.
func ContainsFold(str, substr string) bool {
	for i := 0; i+len(substr) <= len(str); i++ {
		if CmpFold(str[i:i+len(substr)], substr) {
			return true
		}
	}

	return false
}

// ToLower lower-cases ASCII letters, returning the very same string if there
// was nothing to change.
func ToLower(str string) string {
	for i := 0; i < len(str); i++ {
		if isUpper(str[i]) {
			buff := []byte(str)
			for j := i; j < len(buff); j++ {
				buff[j] = lower(buff[j])
			}

			return string(buff)
		}
	}

	return str
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func lower(c byte) byte {
	if isUpper(c) {
		return c | 0x20
	}

	return c
}

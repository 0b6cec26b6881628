package strutil

// LStripWS strips leading spaces and horizontal tabs.
func LStripWS(str string) string {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

// RStripWS strips trailing spaces, horizontal tabs and a stray CR.
func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t', '\r':
		default:
			return str[:i]
		}
	}

	return ""
}

// StripWS is LStripWS and RStripWS applied together.
func StripWS(str string) string {
	return RStripWS(LStripWS(str))
}

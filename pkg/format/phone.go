package format

var northAmerican = map[string]bool{
	"en-US": true,
	"es-US": true,
	"en-CA": true,
	"es-MX": true,
}

// FormatPhone rewrites 10 digit numbers as NXX-NXX-XXXX and 11 digit numbers
// with a leading country digit for North American locales. Anything else,
// including values with non digit characters, is returned unchanged.
func (f *Formatter) FormatPhone(value string) string {
	if !northAmerican[f.locale()] || !allDigits(value) {
		return value
	}
	prefix := ""
	digits := value
	if len(digits) == 11 {
		prefix = digits[:1] + "-"
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return value
	}
	return prefix + digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

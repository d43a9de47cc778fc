package css

import "strings"

// Kebab converts a camel-cased property name to CSS spelling: every upper
// case letter becomes '-' followed by its lower case form, the result is
// lower cased and a leading "ms-" is rendered as "-ms-".
//
//	backgroundColor -> background-color
//	WebkitTransform -> -webkit-transform
//	msFlex          -> -ms-flex
func Kebab(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			sb.WriteByte('-')
			sb.WriteByte(c + ('a' - 'A'))
			continue
		}
		sb.WriteByte(c)
	}
	out := strings.ToLower(sb.String())
	if strings.HasPrefix(out, "ms-") {
		return "-" + out
	}
	return out
}

// Camel is the reverse of Kebab for hyphenated names, used to look up
// properties written in CSS spelling: flex-grow -> flexGrow,
// -webkit-box-flex -> WebkitBoxFlex, -ms-flex -> msFlex. Names without
// hyphens are returned unchanged.
func Camel(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	vendor := strings.HasPrefix(name, "-")
	if strings.HasPrefix(name, "-ms-") {
		// ms prefix stays lower case
		vendor = false
		name = name[1:]
	}

	var sb strings.Builder
	sb.Grow(len(name))
	upper := vendor
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' {
			upper = true
			continue
		}
		if upper && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		sb.WriteByte(c)
	}
	return sb.String()
}

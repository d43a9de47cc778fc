package css

import (
	"strings"

	"stylo/style"
)

// unitlessProperties lists properties whose numeric values are written
// without a unit.
var unitlessProperties = []string{
	"animationIterationCount",
	"borderImageOutset",
	"borderImageSlice",
	"borderImageWidth",
	"boxFlex",
	"boxFlexGroup",
	"boxOrdinalGroup",
	"columnCount",
	"columns",
	"flex",
	"flexGrow",
	"flexPositive",
	"flexShrink",
	"flexNegative",
	"flexOrder",
	"gridArea",
	"gridRow",
	"gridRowEnd",
	"gridRowSpan",
	"gridRowStart",
	"gridColumn",
	"gridColumnEnd",
	"gridColumnSpan",
	"gridColumnStart",
	"fontWeight",
	"lineClamp",
	"lineHeight",
	"opacity",
	"order",
	"orphans",
	"tabSize",
	"widows",
	"zIndex",
	"zoom",

	// SVG
	"fillOpacity",
	"floodOpacity",
	"stopOpacity",
	"strokeDasharray",
	"strokeDashoffset",
	"strokeMiterlimit",
	"strokeOpacity",
	"strokeWidth",
}

var vendorPrefixes = []string{"Webkit", "ms", "Moz", "O"}

// defaultUnitless is the allow-list with vendor prefixed spellings added.
var defaultUnitless = func() map[string]bool {
	m := make(map[string]bool, len(unitlessProperties)*(len(vendorPrefixes)+1))
	for _, name := range unitlessProperties {
		m[name] = true
		suffix := strings.ToUpper(name[:1]) + name[1:]
		for _, prefix := range vendorPrefixes {
			m[prefix+suffix] = true
		}
	}
	return m
}()

// IsUnitless reports whether numbers of property name are written bare.
// Both camel and hyphenated spellings are accepted.
func IsUnitless(name string) bool {
	return defaultUnitless[name] || defaultUnitless[Camel(name)]
}

// NormalizeValue returns the text of v for property name: numbers get a
// "px" unit unless the property is unitless, everything else is unchanged.
func NormalizeValue(name string, v style.Value) string {
	return normalizeValue(name, v, defaultUnitless)
}

func normalizeValue(name string, v style.Value, unitless map[string]bool) string {
	if v.Kind() != style.KindNumber {
		return v.Text()
	}
	if unitless[name] || unitless[Camel(name)] {
		return v.Text()
	}
	return v.Text() + "px"
}

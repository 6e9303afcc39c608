package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata, overridden at link time via -ldflags -X.
var (
	// Number is the plain semantic version.
	Number = "0.2.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var fieldColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Pretty colors the dotted fields of Number for terminal banners. Pre-release
// and build suffixes stay uncolored.
func Pretty() string {
	core := Number
	var suffix string
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	fields := strings.Split(core, ".")
	for i, f := range fields {
		fields[i] = fieldColors[i%len(fieldColors)].Sprint(f)
	}
	return strings.Join(fields, ".") + suffix
}

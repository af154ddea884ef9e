package diagram

import "strconv"

// levelNames holds the Greek names of ladder levels, lowest first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var levelNames = []struct {
	ascii string
	greek string
	latex string
}{
	{"a", "α", `\alpha`},
	{"b", "β", `\beta`},
	{"c", "γ", `\gamma`},
	{"d", "δ", `\delta`},
	{"e", "ε", `\epsilon`},
	{"f", "ζ", `\zeta`},
	{"g", "η", `\eta`},
	{"h", "θ", `\theta`},
	{"i", "ι", `\iota`},
	{"j", "κ", `\kappa`},
}

// LevelName returns the ASCII name of a level: a, b, c, ...
// Levels past the table are written as l<index>.
func LevelName(level int) string {
	if level >= 0 && level < len(levelNames) {
		return levelNames[level].ascii
	}

	return "l" + strconv.Itoa(level)
}

// LevelGreek returns the Greek letter used when drawing a level.
func LevelGreek(level int) string {
	if level >= 0 && level < len(levelNames) {
		return levelNames[level].greek
	}

	return "ν" + strconv.Itoa(level)
}

// LevelLaTeX returns the LaTeX macro of a level's Greek letter.
func LevelLaTeX(level int) string {
	if level >= 0 && level < len(levelNames) {
		return levelNames[level].latex
	}

	return `\nu_{` + strconv.Itoa(level) + `}`
}

package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Size is a display resolution in pixels.
type Size struct {
	Width  int
	Height int
}

func (r Size) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

var resolutionShape = Regex(`[1-9][0-9]*x[1-9][0-9]*`)

// resolutions is the closed list of sizes Resolution accepts.
var resolutions = []Size{
	{800, 600},
	{1024, 768},
	{1280, 720},
	{1440, 900},
	{1920, 1080},
}

// Resolutions returns a copy of the sizes accepted by the Resolution check.
func Resolutions() []Size {
	return append([]Size(nil), resolutions...)
}

// ParseResolution splits "WxH" into its parts. It only checks the shape,
// not membership in Resolutions.
func ParseResolution(value string) (Size, bool) {
	if !resolutionShape(value) {
		return Size{}, false
	}
	w, h, _ := strings.Cut(value, "x")
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, false
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, false
	}
	return Size{Width: width, Height: height}, true
}

// Resolution accepts "WxH" only when the pair is one of Resolutions.
// Well-formed pairs outside that list are rejected.
func Resolution(value string) bool {
	r, ok := ParseResolution(value)
	if !ok {
		return false
	}
	return lo.Contains(resolutions, r)
}

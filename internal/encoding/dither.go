package encoding

// Dithering strategies accepted by the palette-application stage.
const (
	DitherBayer          = "bayer"
	DitherFloydSteinberg = "floyd_steinberg"
	DitherSierra2        = "sierra2"
	DitherSierra24A      = "sierra2_4a"
	DitherNone           = "none"
)

// bayerScale tunes the bayer crosshatch pattern size.
const bayerScale = 5

var ditherNames = []string{
	DitherBayer,
	DitherFloydSteinberg,
	DitherSierra2,
	DitherSierra24A,
	DitherNone,
}

// KnownDither reports whether name is a supported dithering strategy.
func KnownDither(name string) bool {
	for _, known := range ditherNames {
		if known == name {
			return true
		}
	}
	return false
}

// DitherNames returns the supported dithering strategies in display order.
func DitherNames() []string {
	return append([]string(nil), ditherNames...)
}

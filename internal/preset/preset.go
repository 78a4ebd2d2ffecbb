package preset

// SourceFPS is the frame-rate sentinel meaning "keep the source rate".
// The chain builder omits its rate stage when it sees this value.
const SourceFPS = 0

// MaxGIFRate is the highest frame rate worth encoding. GIF frame delays
// are stored in centiseconds, so rates above 50fps cannot be timed
// faithfully and only inflate the file.
const MaxGIFRate = 50

// DefaultName is the preset assumed when the user selects nothing.
const DefaultName = "medium"

// Preset bundles the conversion defaults selected by a quality name.
type Preset struct {
	Name        string
	FPS         int
	Width       int
	Colors      int
	Description string
}

var presets = []Preset{
	{Name: "low", FPS: 10, Width: 480, Colors: 128, Description: "Small file size, lower quality"},
	{Name: "medium", FPS: 15, Width: 720, Colors: 256, Description: "Balanced quality and file size"},
	{Name: "high", FPS: 20, Width: 1080, Colors: 256, Description: "High quality, larger file size"},
	{Name: "max", FPS: SourceFPS, Width: 2160, Colors: 256, Description: "Maximum quality, very large file size"},
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names in ascending quality order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}

// List returns all presets in ascending quality order.
func List() []Preset {
	return append([]Preset(nil), presets...)
}

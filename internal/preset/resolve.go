package preset

const (
	shortClipSeconds  = 3.0
	shortClipRateBump = 5
	shortClipMaxRate  = 30
)

// Overrides carries explicitly requested values that win over preset
// defaults. Width and Colors use 0 for "not specified"; FPS needs the
// separate set flag because SourceFPS is itself a legal explicit choice.
type Overrides struct {
	FPS    int
	FPSSet bool
	Width  int
	Colors int
}

// Settings is a fully merged set of conversion parameters.
type Settings struct {
	FPS    int
	Width  int
	Colors int
}

// Resolve merges explicit overrides over the preset's defaults.
func Resolve(p Preset, o Overrides) Settings {
	s := Settings{FPS: p.FPS, Width: p.Width, Colors: p.Colors}
	if o.FPSSet {
		s.FPS = o.FPS
	}
	if o.Width > 0 {
		s.Width = o.Width
	}
	if o.Colors > 0 {
		s.Colors = o.Colors
	}
	return s
}

// ResolveRate pins the merged frame rate against the probed source
// properties. A SourceFPS sentinel survives only when the native rate
// fits inside MaxGIFRate; faster sources are pinned to MaxGIFRate.
// Clips shorter than three seconds get a small rate bump for smoother
// playback, capped so the bump never raises an already-fluid rate.
func ResolveRate(s Settings, nativeRate, durationSeconds float64) Settings {
	if s.FPS == SourceFPS {
		switch {
		case nativeRate > MaxGIFRate:
			s.FPS = MaxGIFRate
		case shortClip(durationSeconds) && nativeRate > 0 && nativeRate < shortClipMaxRate:
			s.FPS = min(int(nativeRate)+shortClipRateBump, shortClipMaxRate)
		}
		return s
	}
	if shortClip(durationSeconds) && s.FPS < shortClipMaxRate {
		s.FPS = min(s.FPS+shortClipRateBump, shortClipMaxRate)
	}
	return s
}

func shortClip(durationSeconds float64) bool {
	return durationSeconds > 0 && durationSeconds < shortClipSeconds
}

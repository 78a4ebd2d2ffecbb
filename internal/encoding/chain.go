package encoding

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage names used to label chain entries.
const (
	StageTrim       = "trim"
	StageRate       = "fps"
	StageScale      = "scale"
	StagePaletteGen = "palettegen"
	StagePaletteUse = "paletteuse"
)

// Stage is a single filter step carrying its rendered expression.
type Stage struct {
	Name string
	Expr string
}

// Chain is an ordered sequence of filter stages for one encoding pass.
type Chain struct {
	stages []Stage
}

// Stages returns a copy of the chain's stages in order.
func (c Chain) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Render joins the chain into the filtergraph string handed to ffmpeg.
//
// A chain ending in the palette-apply stage needs the palette input
// spliced in: the shared stages feed a labeled pad that is combined with
// input 1. When the apply chain has no shared stages the two inputs are
// referenced directly.
func (c Chain) Render() string {
	if len(c.stages) == 0 {
		return ""
	}
	last := c.stages[len(c.stages)-1]
	if last.Name != StagePaletteUse {
		return joinExprs(c.stages)
	}
	shared := c.stages[:len(c.stages)-1]
	if len(shared) == 0 {
		return "[0:v][1:v]" + last.Expr
	}
	return joinExprs(shared) + "[x];[x][1:v]" + last.Expr
}

func joinExprs(stages []Stage) string {
	exprs := make([]string, 0, len(stages))
	for _, stage := range stages {
		exprs = append(exprs, stage.Expr)
	}
	return strings.Join(exprs, ",")
}

// BuildChains derives the palette-generation and palette-application
// chains for one conversion attempt. Both chains carry identical trim,
// rate, and scale stages so the two passes see pixel-identical frames;
// they differ only in their terminal palette stage.
func BuildChains(cfg ConversionConfig) (Chain, Chain) {
	shared := sharedStages(cfg)
	gen := Chain{stages: append(append([]Stage(nil), shared...), Stage{
		Name: StagePaletteGen,
		Expr: fmt.Sprintf("palettegen=max_colors=%d:stats_mode=diff", cfg.Colors),
	})}
	apply := Chain{stages: append(append([]Stage(nil), shared...), Stage{
		Name: StagePaletteUse,
		Expr: paletteUseExpr(cfg.Dither),
	})}
	return gen, apply
}

func sharedStages(cfg ConversionConfig) []Stage {
	var stages []Stage
	if cfg.trimStartSet() || cfg.trimEndSet() {
		stages = append(stages, Stage{Name: StageTrim, Expr: trimExpr(cfg)})
	}
	if cfg.FPS != SourceRate {
		stages = append(stages, Stage{Name: StageRate, Expr: fmt.Sprintf("fps=%d", cfg.FPS)})
	}
	if cfg.Width > 0 {
		stages = append(stages, Stage{Name: StageScale, Expr: fmt.Sprintf("scale=%d:-2:flags=lanczos", cfg.Width)})
	}
	return stages
}

// trimExpr renders the trim bounds plus the timestamp rebase that keeps
// the trimmed segment starting at zero.
func trimExpr(cfg ConversionConfig) string {
	parts := make([]string, 0, 2)
	if cfg.trimStartSet() {
		parts = append(parts, "start="+formatSeconds(cfg.TrimStart))
	}
	if cfg.trimEndSet() {
		parts = append(parts, "end="+formatSeconds(cfg.TrimEnd))
	}
	return "trim=" + strings.Join(parts, ":") + ",setpts=PTS-STARTPTS"
}

func paletteUseExpr(dither string) string {
	if dither == DitherBayer {
		return fmt.Sprintf("paletteuse=dither=bayer:bayer_scale=%d", bayerScale)
	}
	return "paletteuse=dither=" + dither
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

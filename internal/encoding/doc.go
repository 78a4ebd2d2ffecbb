// Package encoding drives the external ffmpeg binary through the
// two-pass GIF pipeline and the bounded size-fitting search.
//
// A conversion builds two filter chains that share their trim, rate, and
// scale stages: pass one derives a color palette from the source frames,
// pass two re-encodes the frames through that palette. When a size
// ceiling is configured the Fitter reruns the pipeline with progressively
// reduced frame rates and widths, staging each attempt beside the final
// output and promoting the winner into place.
//
// The package consumes an already-resolved ConversionConfig; preset
// lookup and smart defaults live with the CLI layer.
package encoding

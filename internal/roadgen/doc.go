// Package roadgen synthesizes labeled road images for training a lane
// detection model.
//
// Each sample is a randomized three-line road (center line plus left and
// right boundaries), rasterized with anti-aliased line segments into a
// single-channel image and paired with its normalized control-point label.
//
// Randomness is injected through Rand so that tests and dataset builds
// are reproducible. A Synthesizer is safe for concurrent use as long as
// each goroutine owns its Rand and scratch canvas.
package roadgen

// Package dataset builds train/validation sets of synthetic road samples
// and writes them in formats the external training code can load.
//
// Sample i is always generated from its own random stream seeded with
// (Seed, i), so a build is reproducible for a given seed regardless of
// how many workers ran it.
package dataset

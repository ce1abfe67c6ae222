// Package camera maps predicted road curves from camera image space onto
// the ground plane in front of the vehicle and turns them into a steering
// correction.
//
// Key types: Geometry (mount and optics), Projector (image to ground),
// GroundMap, Steering and Pilot (prediction to command).
// Lengths are in whatever unit MountHeight uses (millimetres on the
// reference car); angles are radians.
package camera

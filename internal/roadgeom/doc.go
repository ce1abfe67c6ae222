// Package roadgeom holds the road-curve representation shared by the
// synthetic data generator and the ground-plane projector.
//
// A road is three Bezier curves (left, center, right) each defined by a
// small set of control points. Control points are tagged with the space
// they live in (pixel or normalized image coordinates) so the two are
// never mixed by accident.
//
// Key types: Point, ControlPoints, CurveModel.
// No file, network or database access is allowed in this package.
package roadgeom

package roadgen

import "math"

// drawLineAA rasterizes the segment (x0, y0)-(x1, y1) with Zingl's
// anti-aliased line algorithm, writing 1 on the ideal line and fractional
// coverage on the neighbouring pixels. Writes overwrite, they never add.
//
// The stepping is done with the vertical axis as the primary coordinate,
// which reproduces scikit-image's line_aa pixel selection when that
// function is called as line_aa(x0, y0, x1, y1).
func drawLineAA(im *Image, x0, y0, x1, y1 int) {
	plotLineAA(y0, x0, y1, x1, func(a, b int, v float64) {
		im.Set(b, a, v)
	})
}

// plotLineAA walks the line from (a0, b0) to (a1, b1) and calls plot for
// every touched pixel with its coverage in [0, 1].
func plotLineAA(a0, b0, a1, b1 int, plot func(a, b int, v float64)) {
	da := absInt(a1 - a0)
	db := absInt(b1 - b0)
	sa, sb := 1, 1
	if a0 >= a1 {
		sa = -1
	}
	if b0 >= b1 {
		sb = -1
	}

	ed := 1.0
	if da+db != 0 {
		ed = math.Sqrt(float64(da*da + db*db))
	}

	err := float64(da - db)
	a, b := a0, b0
	for {
		plot(a, b, 1-math.Abs(err-float64(da)+float64(db))/ed)

		e2 := err
		aPrev := a
		if 2*e2 >= -float64(da) {
			if a == a1 {
				break
			}
			if e2+float64(db) < ed {
				plot(a, b+sb, 1-(e2+float64(db))/ed)
			}
			err -= float64(db)
			a += sa
		}
		if 2*e2 <= float64(db) {
			if b == b1 {
				break
			}
			if float64(da)-e2 < ed {
				plot(aPrev+sa, b, 1-(float64(da)-e2)/ed)
			}
			err += float64(da)
			b += sb
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

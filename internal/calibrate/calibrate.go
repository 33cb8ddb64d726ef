// Package calibrate maps an ellipsoidal cloud of three-axis sensor readings
// (typically a magnetometer rotated through all orientations) onto a sphere.
package calibrate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the cloud does not span three dimensions.
var ErrSingular = errors.New("point cloud is degenerate")

// conditionLimit bounds the ratio between the largest and smallest singular value.
const conditionLimit = 1e12

// Result is a fitted calibration.
type Result struct {
	// Center is the hard-iron offset (the cloud mean).
	Center [3]float64
	// Rescale is diag(S)·Vᵀ from the SVD of the centered cloud.
	Rescale *mat.Dense
	// Sphere is the whitened cloud, one row per input point.
	Sphere *mat.Dense

	inverse *mat.Dense
}

// Whiten centers points and removes the cloud's scaling and skew.
func Whiten(points [][3]float64) (*Result, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrSingular, n)
	}

	var center [3]float64
	for _, p := range points {
		for j := range center {
			center[j] += p[j]
		}
	}
	for j := range center {
		center[j] /= float64(n)
	}

	centered := mat.NewDense(n, 3, nil)
	for i, p := range points {
		for j := range center {
			centered.Set(i, j, p[j]-center[j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrSingular)
	}
	s := svd.Values(nil)
	if s[2] == 0 || s[0]/s[2] > conditionLimit {
		return nil, fmt.Errorf("%w: singular values %v", ErrSingular, s)
	}
	var v mat.Dense
	svd.VTo(&v)

	var rescale mat.Dense
	rescale.Mul(mat.NewDiagDense(3, s), v.T())

	// (diag(S)·Vᵀ)⁻¹ = V·diag(1/S)
	inv := make([]float64, 3)
	for i, x := range s {
		inv[i] = 1 / x
	}
	var inverse mat.Dense
	inverse.Mul(&v, mat.NewDiagDense(3, inv))

	var sphere mat.Dense
	sphere.Mul(centered, &inverse)

	return &Result{Center: center, Rescale: &rescale, Sphere: &sphere, inverse: &inverse}, nil
}

// Apply calibrates a single reading with the fitted transform.
func (r *Result) Apply(p [3]float64) [3]float64 {
	row := mat.NewDense(1, 3, []float64{p[0] - r.Center[0], p[1] - r.Center[1], p[2] - r.Center[2]})
	var out mat.Dense
	out.Mul(row, r.inverse)
	return [3]float64{out.At(0, 0), out.At(0, 1), out.At(0, 2)}
}

// Extent reports the per-axis maximum, minimum and mean of the whitened cloud.
func (r *Result) Extent() (maxs, mins, means [3]float64) {
	n, _ := r.Sphere.Dims()
	col := make([]float64, n)
	for j := 0; j < 3; j++ {
		mat.Col(col, j, r.Sphere)
		maxs[j] = floats.Max(col)
		mins[j] = floats.Min(col)
		means[j] = floats.Sum(col) / float64(n)
	}
	return maxs, mins, means
}

// LoadPoints reads whitespace-separated x y z rows. Blank lines and lines
// starting with '#' are ignored.
func LoadPoints(r io.Reader) ([][3]float64, error) {
	var pts [][3]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", line, len(fields))
		}
		var p [3]float64
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, j+1, err)
			}
			p[j] = v
		}
		pts = append(pts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	return pts, nil
}

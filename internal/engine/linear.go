package engine

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"spendcast/internal/analyze"
	"spendcast/internal/model"
)

// fitScaler computes per-feature mean and population standard deviation.
func fitScaler(features [][]float64) *model.Scaler {
	width := len(features[0])
	s := &model.Scaler{Mean: make([]float64, width), Std: make([]float64, width)}
	col := make([]float64, len(features))
	for f := 0; f < width; f++ {
		for i, row := range features {
			col[i] = row[f]
		}
		s.Mean[f] = analyze.Mean(col)
		s.Std[f] = analyze.PopStd(col)
	}
	return s
}

func scaleAll(s *model.Scaler, features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		out[i] = s.Transform(row)
	}
	return out
}

// fitLinear solves ordinary least squares over features with a bias term.
// A degenerate design matrix is a training failure, not a crash.
func fitLinear(features [][]float64, labels []float64) (*model.LinearModel, error) {
	n := len(features)
	width := len(features[0])
	a := mat.NewDense(n, width+1, nil)
	for i, row := range features {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, labels)

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("least squares fit: %w", err)
	}

	weights := make([]float64, width)
	for j := 0; j < width; j++ {
		weights[j] = coef.AtVec(j + 1)
	}
	return &model.LinearModel{Weights: weights, Intercept: coef.AtVec(0)}, nil
}

func predictLinear(lm *model.LinearModel, features []float64) float64 {
	out := lm.Intercept
	for i, w := range lm.Weights {
		if i < len(features) {
			out += w * features[i]
		}
	}
	return out
}

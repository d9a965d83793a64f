package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

func TestMeanVector(t *testing.T) {
	t.Run("empty input yields zero vector of full dimension", func(t *testing.T) {
		mean := model.MeanVector(nil)
		gt.Array(t, mean).Length(model.EmbeddingDimension)
		gt.Bool(t, model.IsZeroVector(mean)).True()
	})

	t.Run("averages element-wise", func(t *testing.T) {
		a := make([]float32, model.EmbeddingDimension)
		b := make([]float32, model.EmbeddingDimension)
		a[0], a[1] = 1, 4
		b[0], b[1] = 3, 0

		mean := model.MeanVector([][]float32{a, b})
		gt.Array(t, mean).Length(model.EmbeddingDimension)
		gt.Value(t, mean[0]).Equal(float32(2))
		gt.Value(t, mean[1]).Equal(float32(2))
		gt.Value(t, mean[2]).Equal(float32(0))
	})
}

func TestIsZeroVector(t *testing.T) {
	v := make([]float32, model.EmbeddingDimension)
	gt.Bool(t, model.IsZeroVector(v)).True()

	v[100] = 0.001
	gt.Bool(t, model.IsZeroVector(v)).False()
}

package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
)

func TestFlattenPrograms(t *testing.T) {
	records := []*model.RecommendationRecord{
		{
			Programs: []model.ProgramMatch{
				{ProgramID: "a", Name: "A", Similarity: 0.9},
				{ProgramID: "b", Name: "B", Similarity: 0.7},
			},
		},
		{
			Programs: []model.ProgramMatch{
				{ProgramID: "a", Name: "A", Similarity: 0.5}, // duplicate, dropped
				{ProgramID: "c", Name: "C", Similarity: 0.6},
			},
		},
	}

	flat := model.FlattenPrograms(records)
	gt.Array(t, flat).Length(3)
	gt.Value(t, flat[0].ProgramID).Equal("a")
	gt.Value(t, flat[0].Similarity).Equal(0.9) // first occurrence wins
	gt.Value(t, flat[1].ProgramID).Equal("b")
	gt.Value(t, flat[2].ProgramID).Equal("c")
}

func TestFlattenProgramsEmpty(t *testing.T) {
	gt.Array(t, model.FlattenPrograms(nil)).Length(0)
}

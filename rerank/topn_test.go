package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/courserec/core"
)

func TestTopNNode(t *testing.T) {
	make10 := func() []*core.Candidate {
		out := make([]*core.Candidate, 10)
		for i := range out {
			out[i] = core.NewCandidate(core.Course{ID: int64(i)}, 0, i)
		}
		return out
	}
	tests := []struct {
		name string
		n    int
		topK int
		want int
	}{
		{"explicit N", 3, 7, 3},
		{"request top-k", 0, 7, 7},
		{"default top-k", 0, 0, core.DefaultTopK},
		{"fewer than limit", 20, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := core.NewRecommendContext("req", "learner", nil, tt.topK)
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), rctx, make10())
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
			if out[0].ID() != 0 {
				t.Error("truncation must keep the head")
			}
		})
	}
}

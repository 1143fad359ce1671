package prediction

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func validPrediction() Prediction {
	return Prediction{
		RoomID: "room-1",
		RaceID: "race-1",
		UserID: "user-1",
		Picks: []Pick{
			{Position: 1, DriverNumber: 1},
			{Position: 2, DriverNumber: 4},
			{Position: 3, DriverNumber: 16},
		},
		PoleDriver: intPtr(1),
		DNFDrivers: []int{23},
	}
}

func TestPrediction_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(p *Prediction)
		want   error
	}{
		{name: "valid", mutate: func(*Prediction) {}},
		{name: "no picks", mutate: func(p *Prediction) { p.Picks = nil }, want: ErrNoPicks},
		{name: "zero position", mutate: func(p *Prediction) { p.Picks[0].Position = 0 }, want: ErrInvalidPosition},
		{name: "duplicate position", mutate: func(p *Prediction) { p.Picks[1].Position = 1 }, want: ErrDuplicatePosition},
		{name: "duplicate driver", mutate: func(p *Prediction) { p.Picks[2].DriverNumber = 4 }, want: ErrDuplicateDriver},
		{name: "bad pole", mutate: func(p *Prediction) { p.PoleDriver = intPtr(0) }, want: ErrInvalidDriver},
		{name: "duplicate dnf", mutate: func(p *Prediction) { p.DNFDrivers = []int{23, 23} }, want: ErrDuplicateDNFDriver},
	}

	for _, tc := range cases {
		p := validPrediction()
		tc.mutate(&p)
		err := p.Validate()
		if tc.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPrediction_SortedPicks(t *testing.T) {
	t.Parallel()

	p := Prediction{Picks: []Pick{{Position: 3, DriverNumber: 16}, {Position: 1, DriverNumber: 1}}}
	sorted := p.SortedPicks()
	if sorted[0].Position != 1 || sorted[1].Position != 3 {
		t.Fatalf("unexpected order: %+v", sorted)
	}
	if p.Picks[0].Position != 3 {
		t.Fatalf("SortedPicks must not mutate the prediction")
	}
}

package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

func intPtr(v int) *int { return &v }

func standardResult() race.OfficialResult {
	return race.OfficialResult{
		Positions: []race.ResultPosition{
			{Position: 1, DriverNumber: 44, Points: 25},
			{Position: 2, DriverNumber: 16, Points: 18},
			{Position: 3, DriverNumber: 1, Points: 15},
			{Position: 4, DriverNumber: 4, Points: 12},
		},
		FastestLapDriver: intPtr(44),
		PoleDriver:       intPtr(16),
	}
}

func TestCalculate_EndToEndExample(t *testing.T) {
	t.Parallel()

	pred := prediction.Prediction{
		Picks: []prediction.Pick{
			{Position: 1, DriverNumber: 44},
			{Position: 2, DriverNumber: 1},
		},
		FastestLapDriver: intPtr(44),
		PoleDriver:       intPtr(1),
		DNFDrivers:       []int{55},
	}

	got := Calculate(pred, standardResult(), DefaultConfig())
	want := Breakdown{
		PositionPoints:     34,
		FastestLapPoints:   1,
		PolePositionPoints: 0,
		DNFPenalty:         -1,
		Total:              34,
	}
	if got != want {
		t.Fatalf("unexpected breakdown:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestCalculate_IsPure(t *testing.T) {
	t.Parallel()

	pred := prediction.Prediction{
		Picks:      []prediction.Pick{{Position: 2, DriverNumber: 16}, {Position: 1, DriverNumber: 4}},
		DNFDrivers: []int{10, 31},
	}
	result := standardResult()
	cfg := DefaultConfig()

	predCopy := pred
	predCopy.Picks = append([]prediction.Pick(nil), pred.Picks...)
	predCopy.DNFDrivers = append([]int(nil), pred.DNFDrivers...)
	tableCopy := append([]float64(nil), cfg.PositionPoints...)

	first := Calculate(pred, result, cfg)
	second := Calculate(pred, result, cfg)
	if first != second {
		t.Fatalf("non-deterministic output: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(pred, predCopy) {
		t.Fatalf("prediction mutated: %+v", pred)
	}
	if !reflect.DeepEqual(cfg.PositionPoints, tableCopy) {
		t.Fatalf("config mutated: %+v", cfg.PositionPoints)
	}
}

func TestCalculate_PositionRules(t *testing.T) {
	t.Parallel()

	cfg := Config{PositionPoints: []float64{10, 6, 4}}
	result := race.OfficialResult{Positions: []race.ResultPosition{
		{Position: 1, DriverNumber: 1},
		{Position: 2, DriverNumber: 2},
		{Position: 3, DriverNumber: 3},
		{Position: 5, DriverNumber: 5},
		{Position: 6, DriverNumber: 6},
	}}

	cases := []struct {
		name string
		pick prediction.Pick
		want float64
	}{
		{name: "exact p1", pick: prediction.Pick{Position: 1, DriverNumber: 1}, want: 10},
		{name: "one off uses predicted slot", pick: prediction.Pick{Position: 2, DriverNumber: 1}, want: 3},
		{name: "two off", pick: prediction.Pick{Position: 3, DriverNumber: 1}, want: 0},
		{name: "exact beyond table clamps", pick: prediction.Pick{Position: 5, DriverNumber: 5}, want: 4},
		{name: "one off beyond table clamps", pick: prediction.Pick{Position: 5, DriverNumber: 6}, want: 2},
		{name: "driver absent", pick: prediction.Pick{Position: 1, DriverNumber: 99}, want: 0},
	}
	for _, tc := range cases {
		got := Calculate(prediction.Prediction{Picks: []prediction.Pick{tc.pick}}, result, cfg)
		if got.PositionPoints != tc.want {
			t.Fatalf("%s: position points=%v want %v", tc.name, got.PositionPoints, tc.want)
		}
	}
}

func TestCalculate_BonusesRequireExactMatch(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	result := standardResult()

	none := Calculate(prediction.Prediction{}, result, cfg)
	if none.FastestLapPoints != 0 || none.PolePositionPoints != 0 {
		t.Fatalf("absent predictions must award nothing: %+v", none)
	}

	hit := Calculate(prediction.Prediction{FastestLapDriver: intPtr(44), PoleDriver: intPtr(16)}, result, cfg)
	if hit.FastestLapPoints != 1 || hit.PolePositionPoints != 2 || hit.Total != 3 {
		t.Fatalf("unexpected bonuses: %+v", hit)
	}

	result.PoleDriver = nil
	miss := Calculate(prediction.Prediction{PoleDriver: intPtr(16)}, result, cfg)
	if miss.PolePositionPoints != 0 {
		t.Fatalf("pole without actual must award nothing: %+v", miss)
	}
}

func TestCalculate_DNFPenaltyIsAsymmetric(t *testing.T) {
	t.Parallel()

	cfg := Config{PositionPoints: []float64{25}, DNFPenalty: 3}
	result := race.OfficialResult{
		Positions:  []race.ResultPosition{{Position: 1, DriverNumber: 1}},
		DNFDrivers: []int{10, 11, 12},
	}

	under := Calculate(prediction.Prediction{DNFDrivers: []int{10}}, result, cfg)
	if under.DNFPenalty != 0 {
		t.Fatalf("under-prediction must not be penalised: %+v", under)
	}

	wrong := Calculate(prediction.Prediction{
		Picks:      []prediction.Pick{{Position: 1, DriverNumber: 1}},
		DNFDrivers: []int{10, 20, 21},
	}, result, cfg)
	if wrong.DNFPenalty != -6 || wrong.Total != 19 {
		t.Fatalf("unexpected penalty: %+v", wrong)
	}
}

func TestCalculate_TotalNeverNegative(t *testing.T) {
	t.Parallel()

	cfg := Config{PositionPoints: []float64{1}, FastestLapPoints: 1, DNFPenalty: 50}
	result := race.OfficialResult{
		Positions:        []race.ResultPosition{{Position: 1, DriverNumber: 1}},
		FastestLapDriver: intPtr(1),
	}
	got := Calculate(prediction.Prediction{
		Picks:            []prediction.Pick{{Position: 1, DriverNumber: 1}},
		FastestLapDriver: intPtr(1),
		DNFDrivers:       []int{7, 8},
	}, result, cfg)
	if got.Total != 0 {
		t.Fatalf("total=%v want 0", got.Total)
	}
	if got.DNFPenalty != -100 {
		t.Fatalf("breakdown should keep the raw penalty, got %v", got.DNFPenalty)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := []Config{
		{},
		{PositionPoints: []float64{25, -1}},
		{PositionPoints: []float64{25}, DNFPenalty: -1},
		{PositionPoints: []float64{25}, PolePositionPoints: -2},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestConfig_Validate_ReportsFirstInvalidField(t *testing.T) {
	t.Parallel()

	cfg := Config{
		PositionPoints:     []float64{25, 18},
		FastestLapPoints:   math.NaN(),
		PolePositionPoints: -1,
		DNFPenalty:         math.Inf(1),
	}
	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "fastest lap points") {
			t.Fatalf("run %d: expected the fastest lap error first, got %v", i, err)
		}
	}
}

package scoring

import (
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

// Breakdown itemises a score. DNFPenalty is zero or negative; Total is the
// clamped sum.
type Breakdown struct {
	PositionPoints     float64
	FastestLapPoints   float64
	PolePositionPoints float64
	DNFPenalty         float64
	Total              float64
}

// Calculate scores a prediction against an official result. It has no side
// effects and the same inputs always give the same breakdown.
//
// A pick in the exact position earns the table value for that position, one
// place off earns half of it, anything further earns nothing. Positions past
// the end of the table use its last entry.
func Calculate(pred prediction.Prediction, result race.OfficialResult, cfg Config) Breakdown {
	actual := make(map[int]int, len(result.Positions))
	for _, p := range result.Positions {
		actual[p.DriverNumber] = p.Position
	}

	var b Breakdown
	if len(cfg.PositionPoints) > 0 {
		for _, pick := range pred.Picks {
			finished, ok := actual[pick.DriverNumber]
			if !ok {
				continue
			}
			value := cfg.PositionPoints[tableIndex(pick.Position, len(cfg.PositionPoints))]
			switch abs(pick.Position - finished) {
			case 0:
				b.PositionPoints += value
			case 1:
				b.PositionPoints += value / 2
			}
		}
	}

	if matches(pred.FastestLapDriver, result.FastestLapDriver) {
		b.FastestLapPoints = cfg.FastestLapPoints
	}
	if matches(pred.PoleDriver, result.PoleDriver) {
		b.PolePositionPoints = cfg.PolePositionPoints
	}

	if len(pred.DNFDrivers) > 0 {
		actualDNF := make(map[int]struct{}, len(result.DNFDrivers))
		for _, d := range result.DNFDrivers {
			actualDNF[d] = struct{}{}
		}
		wrong := 0
		for _, d := range pred.DNFDrivers {
			if _, ok := actualDNF[d]; !ok {
				wrong++
			}
		}
		if wrong > 0 {
			b.DNFPenalty = -float64(wrong) * cfg.DNFPenalty
		}
	}

	b.Total = max(0, b.PositionPoints+b.FastestLapPoints+b.PolePositionPoints+b.DNFPenalty)
	return b
}

func tableIndex(position, size int) int {
	idx := position - 1
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

func matches(predicted, actual *int) bool {
	return predicted != nil && actual != nil && *predicted == *actual
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package scoring

// PositionFactor is the company's signed standing relative to sector peers
// and market cap:
//
//	PF = λ·(vr − avg)/avg + (1−λ)·mcap − 0.5
//
// A zero sector average contributes no relative strength. The result is not
// clamped; outliers surface as values beyond [-1, 1].
func PositionFactor(vr, sectorAvgVR, mcapPercentile, lambda float64) float64 {
	relativeStrength := 0.0
	if sectorAvgVR != 0 {
		relativeStrength = (vr - sectorAvgVR) / sectorAvgVR
	}
	return lambda*relativeStrength + (1-lambda)*mcapPercentile - 0.5
}

// HolisticReadiness is the external-context score H^R = base · timing · (1 + pf).
// It is deliberately unclamped and may exceed 100 for companies well ahead of
// an already high sector bar.
func HolisticReadiness(sectorBase, timingMultiplier, pf float64) float64 {
	return sectorBase * timingMultiplier * (1 + pf)
}

// Synergy is the multiplicative interaction term vr·hr/100.
func Synergy(vr, hr float64) float64 {
	return (vr * hr) / 100
}

package rasdr

import "math"

// Per-stage gain limits in dB. The LNA is switched (0/3/6), VGA1 is
// continuous, VGA2 steps in 3 dB increments; the hardware register encoding
// depends on that quantization.
const (
	lnaGainMid  = 3.0
	lnaGainMax  = 6.0
	vga1GainMax = 25.17
	vga2GainMax = 30.0
	vga2Step    = 3.0
)

// SetTotalGain distributes db across the LNA, VGA1 and VGA2 stages in that
// fixed upstream-first order: the LNA takes the largest switch setting that
// fits, VGA1 absorbs what it can continuously, and VGA2 takes the floor of
// the remainder in 3 dB steps. Any residual above VGA2's step resolution is
// dropped, so near the top of the range the committed total falls short of
// the request by up to one step; TotalGain returns the committed sum.
func (s *OperatingState) SetTotalGain(db float64) error {
	if math.IsNaN(db) || db < 0 || db > MaxTotalGain {
		return paramErr("total gain", db, 0, MaxTotalGain)
	}

	var g GainStages
	remaining := db
	switch {
	case remaining >= lnaGainMax:
		g.LNA = lnaGainMax
	case remaining >= lnaGainMid:
		g.LNA = lnaGainMid
	}
	remaining -= g.LNA

	g.VGA1 = math.Min(remaining, vga1GainMax)
	remaining -= g.VGA1

	g.VGA2 = math.Floor(math.Min(remaining, vga2GainMax)/vga2Step) * vga2Step

	s.mu.Lock()
	s.gains = g
	s.totalGain = g.Sum()
	s.mu.Unlock()
	return nil
}

package chip

import (
	"fmt"
	"strconv"
)

// ADF4002 programs the fractional synthesizer's divider latches. The tuned
// frequency is reference * r / n, with r and n computed by the core's divider
// search; this type only translates the committed pair into register writes.
type ADF4002 struct {
	bus    RegisterBus
	device string
}

func NewADF4002(bus RegisterBus, device string) *ADF4002 {
	if device == "" {
		device = "adf4002"
	}
	return &ADF4002{bus: bus, device: device}
}

// ProgramDivider latches the divider pair into the synthesizer.
func (c *ADF4002) ProgramDivider(r, n int) error {
	if r <= 0 || n <= 0 {
		return fmt.Errorf("adf4002: invalid divider pair r=%d n=%d", r, n)
	}
	if err := c.bus.WriteAttr(c.device, "divider_r", strconv.Itoa(r)); err != nil {
		return fmt.Errorf("adf4002: latch r counter: %w", err)
	}
	if err := c.bus.WriteAttr(c.device, "divider_n", strconv.Itoa(n)); err != nil {
		return fmt.Errorf("adf4002: latch n counter: %w", err)
	}
	return nil
}

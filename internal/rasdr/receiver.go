// Package rasdr implements the RASDR receiver signal-path core: translating
// requested analog parameters into realizable register values and decoding
// the bit-packed hardware sample stream.
package rasdr

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rasdr/gorasdr/internal/chip"
	"github.com/rasdr/gorasdr/internal/frame"
	"github.com/rasdr/gorasdr/internal/logging"
)

// FrameSource delivers raw bit-packed sample buffers from the transport
// layer, one frame per call.
type FrameSource interface {
	ReadFrame(numSamples int) ([]byte, error)
	Close() error
}

// Config carries the parameters required to open a receiver channel.
type Config struct {
	Reference  float64 // Hz, defaults to the on-board TCXO
	NumSamples int     // samples per frame
	Simulation bool    // use the built-in simulated frame source
	Sim        SimSettings

	// IQPolarity selects the expected word interleaving (false: I,Q,...),
	// OTMPolarity the marker sense (false: bit 15 set marks the edge).
	IQPolarity  bool
	OTMPolarity bool

	Bus    chip.RegisterBus // nil: in-memory bus
	Source FrameSource      // nil: simulated source when Simulation is set
	Logger *zap.SugaredLogger
}

// Receiver owns one channel's OperatingState and the sub-device programmers
// that realize committed parameters in hardware. All setters validate before
// committing; a rejected request leaves both state and hardware untouched.
type Receiver struct {
	mu  sync.Mutex
	cfg Config

	state *OperatingState
	bus   chip.RegisterBus
	pll   *chip.ADF4002
	xcvr  *chip.LMS6002
	clk   *chip.Si5351
	src   FrameSource
	log   *zap.SugaredLogger
}

// Open creates a receiver channel and applies the factory defaults through
// the validated setters, so the initial state is derived the same way as any
// later request.
func Open(cfg Config) (*Receiver, error) {
	if cfg.Reference == 0 {
		cfg.Reference = ReferenceFreq
	}
	if cfg.Reference < 0 {
		return nil, fmt.Errorf("open: negative reference clock %g Hz", cfg.Reference)
	}
	if cfg.NumSamples <= 0 {
		cfg.NumSamples = DefaultSamples
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Bus == nil {
		cfg.Bus = chip.NewMemBus()
	}

	r := &Receiver{
		cfg:   cfg,
		state: NewOperatingState(cfg.Reference),
		bus:   cfg.Bus,
		pll:   chip.NewADF4002(cfg.Bus, ""),
		xcvr:  chip.NewLMS6002(cfg.Bus, ""),
		clk:   chip.NewSi5351(cfg.Bus, "", cfg.Reference),
		src:   cfg.Source,
		log:   cfg.Logger,
	}
	if r.src == nil && cfg.Simulation {
		r.src = NewSimSource(r.state, cfg.Sim)
	}

	r.state.setOpen(true)
	if err := r.state.SetNumSamples(cfg.NumSamples); err != nil {
		return nil, err
	}

	err := r.SetSampleRate(DefaultRate)
	if err == nil {
		err = r.SetBandwidth(DefaultBW)
	}
	if err == nil {
		err = r.SetCenterFreq(DefaultFreq)
	}
	if err == nil {
		err = r.SetTotalGain(DefaultGain)
	}
	if err != nil {
		r.state.setOpen(false)
		return nil, fmt.Errorf("open: apply defaults: %w", err)
	}

	r.log.Infow("receiver opened",
		"reference_hz", cfg.Reference,
		"simulation", cfg.Simulation,
		"frame_samples", cfg.NumSamples,
	)
	return r, nil
}

// Close releases the frame source and register bus and marks the channel
// closed. Further operations fail until a new channel is opened.
func (r *Receiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.IsOpen() {
		return nil
	}
	r.state.setOpen(false)

	var firstErr error
	if r.src != nil {
		if err := r.src.Close(); err != nil {
			firstErr = err
		}
		r.src = nil
	}
	if err := r.bus.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	r.log.Infow("receiver closed")
	return firstErr
}

func (r *Receiver) requireOpen() error {
	if !r.state.IsOpen() {
		return fmt.Errorf("receiver is closed")
	}
	return nil
}

// State exposes the channel's operating state for direct reads.
func (r *Receiver) State() *OperatingState { return r.state }

// SetCenterFreq tunes to the closest realizable frequency and latches the
// winning divider pair into the synthesizer.
func (r *Receiver) SetCenterFreq(hz float64) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if err := r.state.SetCenterFreq(hz); err != nil {
		return err
	}
	d := r.state.Divider()
	if err := r.pll.ProgramDivider(d.R, d.N); err != nil {
		return fmt.Errorf("program synthesizer: %w", err)
	}
	r.log.Debugw("tuned", "requested_hz", hz, "actual_hz", r.state.CenterFreq(), "r", d.R, "n", d.N)
	return nil
}

// CenterFreq returns the authoritative tuned frequency.
func (r *Receiver) CenterFreq() float64 { return r.state.CenterFreq() }

// SetTotalGain distributes the requested gain across the amplifier stages
// and programs the transceiver registers with the committed split.
func (r *Receiver) SetTotalGain(db float64) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if err := r.state.SetTotalGain(db); err != nil {
		return err
	}
	g := r.state.Gains()
	if err := r.xcvr.ProgramGains(g.LNA, g.VGA1, g.VGA2); err != nil {
		return fmt.Errorf("program gains: %w", err)
	}
	r.log.Debugw("gain set", "requested_db", db, "actual_db", r.state.TotalGain(),
		"lna", g.LNA, "vga1", g.VGA1, "vga2", g.VGA2)
	return nil
}

// TotalGain returns the committed stage sum.
func (r *Receiver) TotalGain() float64 { return r.state.TotalGain() }

// SetSampleRate validates and commits a new rate, then programs the sample
// clock generator.
func (r *Receiver) SetSampleRate(hz float64) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if err := r.state.SetSampleRate(hz); err != nil {
		return err
	}
	realized, err := r.clk.ProgramSampleClock(hz)
	if err != nil {
		return fmt.Errorf("program sample clock: %w", err)
	}
	r.log.Debugw("sample rate set", "requested_hz", hz, "clock_hz", realized)
	return nil
}

// SampleRate returns the committed sample rate in Hz.
func (r *Receiver) SampleRate() float64 { return r.state.SampleRate() }

// SetBandwidth validates and commits a new analog bandwidth, then programs
// the channel filter.
func (r *Receiver) SetBandwidth(hz float64) error {
	if err := r.requireOpen(); err != nil {
		return err
	}
	if err := r.state.SetBandwidth(hz); err != nil {
		return err
	}
	if err := r.xcvr.ProgramBandwidth(hz); err != nil {
		return fmt.Errorf("program bandwidth: %w", err)
	}
	r.log.Debugw("bandwidth set", "hz", hz, "code", chip.BandwidthCode(hz))
	return nil
}

// Bandwidth returns the committed analog bandwidth in Hz.
func (r *Receiver) Bandwidth() float64 { return r.state.Bandwidth() }

// ReadFrame pulls one raw buffer from the frame source and decodes it using
// the channel's current seconds-per-sample value. Framing and polarity
// failures condemn the buffer; the caller may retry on the next frame.
func (r *Receiver) ReadFrame() (*frame.Decoded, error) {
	if err := r.requireOpen(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	src := r.src
	r.mu.Unlock()
	if src == nil {
		return nil, fmt.Errorf("no frame source configured")
	}

	buf, err := src.ReadFrame(r.state.NumSamples())
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return r.Decode(buf)
}

// Decode decodes a caller-supplied raw buffer with the channel's configured
// polarities and current timing.
func (r *Receiver) Decode(buf []byte) (*frame.Decoded, error) {
	return frame.Decode(buf, r.cfg.IQPolarity, r.cfg.OTMPolarity, r.state.SecondsPerSample())
}

// Describe renders the diagnostic state summary.
func (r *Receiver) Describe() string { return r.state.Describe() }

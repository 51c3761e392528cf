// rasdrprobe opens a simulated receiver channel, applies the requested
// tuning, decodes one frame, and prints the resulting state, on-time-marker
// result, and spectrum peak. It is a wiring check for the signal-path core,
// not a capture tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rasdr/gorasdr/internal/config"
	"github.com/rasdr/gorasdr/internal/discovery"
	"github.com/rasdr/gorasdr/internal/dsp"
	"github.com/rasdr/gorasdr/internal/logging"
	"github.com/rasdr/gorasdr/internal/rasdr"
)

func main() {
	var (
		freq     = flag.Float64("freq", rasdr.DefaultFreq, "center frequency in Hz")
		rate     = flag.Float64("rate", rasdr.DefaultRate, "sample rate in Hz")
		bw       = flag.Float64("bw", rasdr.DefaultBW, "bandwidth in Hz")
		gain     = flag.Float64("gain", rasdr.DefaultGain, "total gain in dB")
		samples  = flag.Int("samples", rasdr.DefaultSamples, "samples per frame")
		profile  = flag.String("profile", "", "YAML receiver profile to apply")
		discover = flag.Bool("discover", false, "browse for network-attached units and exit")
		level    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	lvl, err := logging.ParseLevel(*level)
	if err != nil {
		log.Fatalf("parse log level: %v", err)
	}
	logger, err := logging.New(lvl)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	if *discover {
		units, err := discovery.Browse(3 * time.Second)
		if err != nil {
			log.Fatalf("discover: %v", err)
		}
		for _, u := range units {
			fmt.Printf("%s %s %v port %d\n", u.Instance, u.Hostname, u.Addresses, u.Port)
		}
		if len(units) == 0 {
			fmt.Println("no units found")
		}
		return
	}

	rx, err := rasdr.Open(rasdr.Config{
		Simulation: true,
		NumSamples: *samples,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("open receiver: %v", err)
	}
	defer rx.Close()

	if *profile != "" {
		p, err := config.Load(*profile)
		if err != nil {
			log.Fatalf("load profile: %v", err)
		}
		if err := p.Apply(rx); err != nil {
			log.Fatalf("apply profile: %v", err)
		}
	}

	if err := rx.SetSampleRate(*rate); err != nil {
		log.Fatalf("set sample rate: %v", err)
	}
	if err := rx.SetBandwidth(*bw); err != nil {
		log.Fatalf("set bandwidth: %v", err)
	}
	if err := rx.SetCenterFreq(*freq); err != nil {
		log.Fatalf("set center frequency: %v", err)
	}
	if err := rx.SetTotalGain(*gain); err != nil {
		log.Fatalf("set gain: %v", err)
	}

	fmt.Println(rx.Describe())

	decoded, err := rx.ReadFrame()
	if err != nil {
		log.Fatalf("read frame: %v", err)
	}

	fmt.Printf("decoded %d samples, otm index %d, otm offset %.9f s\n",
		len(decoded.Samples), decoded.OTMIndex, decoded.OTMOffset)

	_, dbfs := dsp.SpectrumDBFS(decoded.Samples)
	peakHz, peakDB := dsp.PeakBin(dbfs, rx.SampleRate())
	fmt.Printf("spectrum peak %.1f dBFS at %+.0f Hz from center\n", peakDB, peakHz)
}

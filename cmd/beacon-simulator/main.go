// beacon-simulator drives the beacon handler with synthetic loop
// packets, for eyeballing encoder output and soak-testing the output
// file path without a weather station or an archive database.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wxbeacon/wxbeacon/internal/beacon"
	"github.com/wxbeacon/wxbeacon/internal/engine"
	"github.com/wxbeacon/wxbeacon/internal/log"
	"github.com/wxbeacon/wxbeacon/internal/types"
	"github.com/wxbeacon/wxbeacon/internal/units"
)

const defaultInterval = 4 * time.Second

func main() {
	output := flag.String("output", "/var/tmp/wxbeacon-sim.txt", "Beacon output file")
	interval := flag.Duration("interval", defaultInterval, "Interval between synthetic loop packets")
	lat := flag.Float64("lat", 38.9072, "Station latitude in decimal degrees")
	lon := flag.Float64("lon", -77.0369, "Station longitude in decimal degrees")
	note := flag.String("note", "wxbeacon simulator", "Beacon note text")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	prefs := units.Resolve(units.Options{System: "US"})
	location := beacon.ResolveLocation("", "", *lat, *lon)

	// Synthetic packets carry their own rainfall accumulators, so no
	// archive store is needed.
	calc := beacon.NewCalculator(prefs, nil, false, time.Local)
	enc, err := beacon.NewEncoder(location, "/_", *note, *output)
	if err != nil {
		log.Fatalf("unable to create encoder: %v", err)
	}

	eng := engine.New()
	eng.Bind(engine.NewLoopPacket, beacon.NewHandler(calc, enc).HandleEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	log.Infof("simulating loop packets every %s, writing %s", *interval, *output)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			eng.Dispatch(engine.Event{Kind: engine.NewLoopPacket, Record: syntheticPacket()})
		case <-ctx.Done():
			log.Info("simulator stopped")
			return
		}
	}
}

// syntheticPacket fabricates a plausible US-units loop packet with small
// random wander.
func syntheticPacket() *types.Observation {
	obs := types.NewObservation(time.Now().Unix(), units.US)
	obs.Set(types.FieldWindDir, float64(rand.Intn(360)))
	obs.Set(types.FieldWindSpeed, 4+rand.Float64()*8)
	obs.Set(types.FieldWindGust, 10+rand.Float64()*10)
	obs.Set(types.FieldOutTemp, 60+rand.Float64()*15)
	obs.Set(types.FieldOutHumidity, 35+rand.Float64()*40)
	obs.Set(types.FieldBarometer, 29.6+rand.Float64()*0.8)
	obs.Set(types.FieldHourRain, rand.Float64()*0.1)
	obs.Set(types.FieldRain24, rand.Float64()*0.5)
	obs.Set(types.FieldDayRain, rand.Float64()*0.3)
	return obs
}

package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	spacetrains "github.com/irigi/SpaceTrains"
	"github.com/irigi/SpaceTrains/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// This code reads the scenario, then ticks the simulation until the end of the scenario.

const (
	defaultScenario = "~~unset~~"
	dateFormat      = "2006-01-02 15:04:05"
)

var (
	scenario    string
	metricsAddr string
	verbose     bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.StringVar(&metricsAddr, "metrics", "", "address to serve Prometheus metrics on (e.g. :9090)")
	flag.BoolVar(&verbose, "verbose", false, "log every autopilot action")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if scenario == defaultScenario {
		logger.Log("level", "critical", "subsys", "conf", "message", "no scenario provided")
		os.Exit(1)
	}
	if !strings.HasSuffix(scenario, ".toml") {
		scenario += ".toml"
	}
	sc, err := spacetrains.LoadScenario(scenario)
	if err != nil {
		logger.Log("level", "critical", "subsys", "conf", "err", err)
		os.Exit(1)
	}
	if verbose {
		logger.Log("level", "info", "subsys", "conf", "epoch", sc.Epoch.Format(dateFormat), "step(yr)", sc.Step, "duration(yr)", sc.Duration, "bodies", len(sc.Bodies), "ships", len(sc.Ships))
	}

	simLogger := logger
	if !verbose {
		// Drop the debug records.
		simLogger = kitlog.LoggerFunc(func(keyvals ...interface{}) error {
			for i := 0; i+1 < len(keyvals); i += 2 {
				if keyvals[i] == "level" && keyvals[i+1] == "debug" {
					return nil
				}
			}
			return logger.Log(keyvals...)
		})
	}
	sim, err := sc.Build(simLogger)
	if err != nil {
		logger.Log("level", "critical", "subsys", "conf", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	sim.AddListener(telemetry.NewListener(reg))
	if metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				logger.Log("level", "error", "subsys", "metrics", "err", err)
			}
		}()
	}

	if err := run(sim, sc, logger); err != nil {
		logger.Log("level", "critical", "subsys", "sim", "err", err)
		os.Exit(1)
	}
	for _, ship := range sim.Ships() {
		logger.Log("level", "info", "subsys", "sim", "ship", ship.Name, "state", ship.FlightState(), "fuel(kg)", ship.Engine.Fuel.Amount())
	}
}

// run ticks sim for the duration of the scenario. The export files are closed even if the run fails.
func run(sim *spacetrains.Simulation, sc *spacetrains.Scenario, logger kitlog.Logger) (err error) {
	if !sc.Export.IsUseless() {
		exporter, xerr := spacetrains.NewExporter(sim, sc.Export, logger)
		if xerr != nil {
			return xerr
		}
		sim.AddListener(exporter)
		defer func() {
			if cerr := exporter.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	start := time.Now()
	if err = sim.Run(sc.Duration, sc.Step); err != nil {
		return err
	}
	logger.Log("level", "notice", "subsys", "sim", "status", "finished", "until", sim.Date(sim.Time()).Format(dateFormat), "took", time.Since(start))
	return nil
}

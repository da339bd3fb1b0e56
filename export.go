package spacetrains

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
)

// ExportConfig configures the exporting of the simulation events.
type ExportConfig struct {
	Dir          string
	Filename     string
	Timestamp    bool
	Trajectories bool // also write the samples of each transfer trajectory
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return c.Dir == ""
}

// TrajectoryRecord is one sample of an exported trajectory.
type TrajectoryRecord struct {
	JD       float64
	Position []float64 // AU
	Velocity []float64 // AU/year
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (r *TrajectoryRecord) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	vals := make([]float64, 7)
	for i, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[i] = val
	}
	r.JD = vals[0]
	r.Position = vals[1:4]
	r.Velocity = vals[4:7]
	return nil
}

// ToText converts to text for written output.
func (r *TrajectoryRecord) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", r.JD, r.Position[0], r.Position[1], r.Position[2], r.Velocity[0], r.Velocity[1], r.Velocity[2])
}

// ParseTrajectoryRecords reads the records written for a trajectory.
func ParseTrajectoryRecords(r io.Reader) ([]*TrajectoryRecord, error) {
	var records []*TrajectoryRecord
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := TrajectoryRecord{}
		if err := rec.FromText(fields); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Exporter is an EventListener which writes every transition and burn as a CSV row and,
// if configured, the trajectory of every transfer to its own file.
type Exporter struct {
	conf    ExportConfig
	sim     *Simulation
	f       *os.File
	w       *csv.Writer
	trajNo  int
	created []string
	logger  kitlog.Logger
}

// NewExporter creates the events file. The returned exporter must be closed.
func NewExporter(sim *Simulation, conf ExportConfig, logger kitlog.Logger) (*Exporter, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if err := os.MkdirAll(conf.Dir, 0755); err != nil {
		return nil, err
	}
	e := &Exporter{conf: conf, sim: sim, logger: kitlog.With(logger, "subsys", "export")}
	f, err := e.create("events", "csv")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f, "# Creation date (UTC): %s\n# Simulation epoch (UTC): %s\n", time.Now().UTC(), sim.Epoch)
	e.f = f
	e.w = csv.NewWriter(f)
	e.w.Write([]string{"date", "t", "ship", "event", "from", "to", "deltaV", "burned", "remaining"})
	return e, nil
}

// Files returns the names of the files created so far.
func (e *Exporter) Files() []string {
	return append([]string(nil), e.created...)
}

// OnTransition implements the EventListener interface.
func (e *Exporter) OnTransition(ev TransitionEvent) {
	e.w.Write([]string{e.date(ev.T), ftoa(ev.T), ev.Ship, "transition", ev.From.String(), ev.To.String(), "", "", ""})
	e.w.Flush()
	if !e.conf.Trajectories || ev.To.Regime() != InterplanetaryTransfer {
		return
	}
	for _, ship := range e.sim.Ships() {
		if ship.Name == ev.Ship && ship.Trajectory() != nil {
			if err := e.writeTrajectory(ship.Name, ship.Trajectory()); err != nil {
				e.logger.Log("level", "error", "ship", ship.Name, "err", err)
			}
			return
		}
	}
}

// OnBurn implements the EventListener interface.
func (e *Exporter) OnBurn(ev BurnEvent) {
	e.w.Write([]string{e.date(ev.T), ftoa(ev.T), ev.Ship, "burn", "", "", ftoa(ev.Δv), ftoa(ev.Burned), ftoa(ev.Remaining)})
	e.w.Flush()
}

// Close flushes and closes the events file.
func (e *Exporter) Close() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		e.f.Close()
		return err
	}
	return e.f.Close()
}

// writeTrajectory writes one record per sample of a full revolution of tr.
func (e *Exporter) writeTrajectory(ship string, tr *Trajectory) error {
	f, err := e.create(fmt.Sprintf("traj-%s-%d", strings.ReplaceAll(ship, " ", "_"), e.trajNo), "xyzv")
	if err != nil {
		return err
	}
	defer f.Close()
	e.trajNo++
	// Header
	fmt.Fprintf(f, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Position in AU
#   Velocity in AU/year
#   Period: %f years
`, time.Now().UTC(), tr.Period())
	for i, pt := range tr.Points() {
		t := tr.times[i]
		rec := TrajectoryRecord{JD: julian.TimeToJD(e.sim.Date(t)), Position: pt, Velocity: tr.Velocity(t)}
		if _, err := fmt.Fprintln(f, rec.ToText()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) create(kind, ext string) (*os.File, error) {
	name := fmt.Sprintf("%s-%s", kind, e.conf.Filename)
	if e.conf.Filename == "" {
		name = kind
	}
	if e.conf.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	path := filepath.Join(e.conf.Dir, name+"."+ext)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	e.created = append(e.created, path)
	e.logger.Log("level", "info", "file", path)
	return f, nil
}

func (e *Exporter) date(t float64) string {
	return e.sim.Date(t).Format("2006-01-02 15:04:05")
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

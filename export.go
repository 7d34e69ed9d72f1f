package orrery

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// SceneObject is the JSON representation of an orbit curve and its apsides, as consumed by
// the rendering layer.
type SceneObject struct {
	Name   string         `json:"name"`
	Parent string         `json:"parent,omitempty"`
	Frame  string         `json:"frame"`
	Points [][3]float64   `json:"points"`
	Events []SceneApsis   `json:"events,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// SceneApsis is the JSON representation of an apsidal event.
type SceneApsis struct {
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Distance float64    `json:"distance"`
	Date     string     `json:"date,omitempty"`
	Accuracy string     `json:"accuracy"`
}

// NewSceneObject returns the scene object of a located curve and its events.
func NewSceneObject(el Elements, c Curve, events []ApsidalEvent) SceneObject {
	o := SceneObject{Name: el.Name, Parent: el.Parent, Frame: "EclipticJ2000", Points: make([][3]float64, c.Len())}
	for i, p := range c.Points {
		o.Points[i] = [3]float64{p.X, p.Y, p.Z}
	}
	for _, ev := range events {
		o.Events = append(o.Events, SceneApsis{
			Kind:     ev.Kind.String(),
			Position: [3]float64{ev.Position.X, ev.Position.Y, ev.Position.Z},
			Distance: ev.Distance,
			Date:     ev.DateString(),
			Accuracy: ev.Accuracy.String(),
		})
	}
	o.Meta = map[string]any{"regime": el.Regime().String(), "a": el.A, "e": el.E}
	return o
}

// WriteScene writes the scene objects as indented JSON.
func WriteScene(w io.Writer, objects []SceneObject) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

// WriteCurveCSV writes the curve as CSV records of θ (degrees), x, y, z (AU).
func WriteCurveCSV(w io.Writer, el Elements, c Curve) error {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Orbit of %s
# Records are <nu> <x> <y> <z>
#   True anomaly in degrees
#   Position in AU, ecliptic J2000
`, time.Now().UTC().Format(DateFormat), el); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"nu", "x", "y", "z"}); err != nil {
		return err
	}
	for i, p := range c.Points {
		if err := cw.Write([]string{fmtFloat(c.Anomalies[i] / deg2rad), fmtFloat(p.X), fmtFloat(p.Y), fmtFloat(p.Z)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventsCSV writes apsidal events as CSV records.
func WriteEventsCSV(w io.Writer, name string, events []ApsidalEvent) error {
	cw := csv.NewWriter(w)
	for _, ev := range events {
		if err := cw.Write([]string{name, ev.Kind.String(), fmtFloat(ev.Position.X), fmtFloat(ev.Position.Y), fmtFloat(ev.Position.Z), fmtFloat(ev.Distance), ev.DateString(), ev.Accuracy.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

package orrery

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CorrectionStrategy is how a parent-equatorial frame is mapped onto the ecliptic.
type CorrectionStrategy uint8

const (
	// Identity is for elements already given relative to the ecliptic.
	Identity CorrectionStrategy = iota + 1
	// GenericTilt is a single X rotation by the parent's axial tilt.
	GenericTilt
	// PoleOrientation uses the parent's pole right ascension and declination.
	PoleOrientation
	// EmpiricalFit are trial-fit rotations which best match published satellite frames.
	EmpiricalFit
	// LaplacePlane is for elements given relative to a local Laplace plane.
	LaplacePlane
)

func (s CorrectionStrategy) String() string {
	switch s {
	case Identity:
		return "identity"
	case GenericTilt:
		return "generic-tilt"
	case PoleOrientation:
		return "pole-orientation"
	case EmpiricalFit:
		return "empirical-fit"
	case LaplacePlane:
		return "laplace-plane"
	default:
		return "unknown"
	}
}

// ParseCorrectionStrategy returns the strategy from its name.
func ParseCorrectionStrategy(name string) (CorrectionStrategy, error) {
	for s := Identity; s <= LaplacePlane; s++ {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown frame correction strategy `%s`", name)
}

// Empirically fit constants (degrees). They are not derived from the IAU pole models and
// carry a known residual error, e.g. about 10-20° for the Martian satellites.
const (
	marsFitAngle      = 25.19
	uranusFitAngle    = 105.0
	neptunePoleRA     = 299.36
	neptunePoleDec    = 43.46
	tritonFineTune    = 3.0
	plutoTilt         = -122.53
	plutoNodeFit      = -105.0
	phoebeLaplaceTilt = -17.0
	phoebeNodeFit     = -30.0
	saturnRAAN        = 113.665 // Saturn's heliocentric Ω
	saturnInclination = 2.485   // Saturn's heliocentric i
)

// AxialTilts are the default obliquities (degrees) used by the generic tilt correction.
var AxialTilts = map[string]float64{
	"Mercury": 0.034,
	"Venus":   177.36,
	"Earth":   23.4393,
	"Mars":    25.19,
	"Jupiter": 3.13,
	"Saturn":  26.73,
	"Uranus":  97.77,
	"Neptune": 28.32,
	"Pluto":   122.53,
}

// FrameRotation is one step of a frame correction: a rotation about an axis by an angle
// in degrees, with the reason it is there.
type FrameRotation struct {
	Axis      Axis    `mapstructure:"axis" toml:"axis"`
	Angle     float64 `mapstructure:"angle" toml:"angle"`
	Rationale string  `mapstructure:"rationale" toml:"rationale"`
}

func (r FrameRotation) String() string {
	return fmt.Sprintf("%s by %.3f° (%s)", r.Axis, r.Angle, r.Rationale)
}

// FrameCorrection maps the equatorial frame of a parent body onto the ecliptic for its
// satellites, or only one of them if Satellite is set.
type FrameCorrection struct {
	Parent    string
	Satellite string
	Strategy  CorrectionStrategy
	Steps     []FrameRotation
}

// Matrix returns the rotation matrix applying every step in order.
func (fc FrameCorrection) Matrix() (*mat.Dense, error) {
	steps := make([]rotation, len(fc.Steps))
	for i, s := range fc.Steps {
		steps[i] = rotation{s.Axis, s.Angle * deg2rad}
	}
	return compose(steps...)
}

// Apply rotates the points by every step of this correction.
func (fc FrameCorrection) Apply(points []r3.Vec) ([]r3.Vec, error) {
	m, err := fc.Matrix()
	if err != nil {
		return nil, fmt.Errorf("frame correction for %s: %w", fc.key(), err)
	}
	return transform(m, points), nil
}

func (fc FrameCorrection) key() string {
	return correctionKey(fc.Parent, fc.Satellite)
}

func correctionKey(parent, satellite string) string {
	k := strings.ToLower(strings.TrimSpace(parent))
	if satellite != "" {
		k += "/" + strings.ToLower(strings.TrimSpace(satellite))
	}
	return k
}

// DefaultRecipes returns the bespoke corrections of bodies for which a generic tilt is not
// good enough.
func DefaultRecipes() []FrameCorrection {
	return []FrameCorrection{
		{Parent: "Sun", Strategy: Identity},
		{Parent: "Earth", Satellite: "Moon", Strategy: Identity},
		{Parent: "Mars", Strategy: EmpiricalFit, Steps: []FrameRotation{
			{AxisY, marsFitAngle, "matches the published frame of Phobos and Deimos better than an X tilt; ~10-20° residual"},
		}},
		{Parent: "Uranus", Strategy: EmpiricalFit, Steps: []FrameRotation{
			{AxisX, uranusFitAngle, "trial fit instead of the nominal 97.77° tilt"},
			{AxisY, uranusFitAngle, "trial fit instead of the nominal 97.77° tilt"},
		}},
		{Parent: "Neptune", Satellite: "Triton", Strategy: PoleOrientation, Steps: []FrameRotation{
			{AxisZ, neptunePoleRA, "pole right ascension"},
			{AxisX, 90 - neptunePoleDec, "pole colatitude"},
			{AxisZ, tritonFineTune, "fine tune"},
		}},
		{Parent: "Pluto", Strategy: EmpiricalFit, Steps: []FrameRotation{
			{AxisX, plutoTilt, "axial tilt"},
			{AxisY, plutoTilt, "axial tilt, trial fit"},
			{AxisZ, plutoNodeFit, "node trial fit"},
		}},
		{Parent: "Saturn", Satellite: "Phoebe", Strategy: LaplacePlane, Steps: []FrameRotation{
			{AxisX, phoebeLaplaceTilt, "local Laplace plane tilt"},
			{AxisZ, phoebeNodeFit, "node correction"},
			{AxisZ, -saturnRAAN, "Saturn orbital plane node"},
			{AxisX, -saturnInclination, "Saturn orbital plane inclination"},
		}},
	}
}

// CorrectionTable is a read-only lookup of frame corrections keyed by parent name (and
// optionally satellite name), defaulting to a generic tilt correction.
type CorrectionTable struct {
	tilts   map[string]float64
	recipes map[string]FrameCorrection
}

// NewCorrectionTable returns a new table from axial tilts (degrees) and recipes.
func NewCorrectionTable(tilts map[string]float64, recipes []FrameCorrection) (*CorrectionTable, error) {
	t := &CorrectionTable{tilts: make(map[string]float64, len(tilts)), recipes: make(map[string]FrameCorrection, len(recipes))}
	for body, tilt := range tilts {
		t.tilts[correctionKey(body, "")] = tilt
	}
	for _, r := range recipes {
		for _, s := range r.Steps {
			if !s.Axis.valid() {
				return nil, fmt.Errorf("recipe %s: %w `%s`", r.key(), ErrInvalidAxis, s.Axis)
			}
		}
		r.Steps = append([]FrameRotation(nil), r.Steps...)
		t.recipes[r.key()] = r
	}
	return t, nil
}

// DefaultCorrections returns the table of AxialTilts and DefaultRecipes.
func DefaultCorrections() *CorrectionTable {
	t, err := NewCorrectionTable(AxialTilts, DefaultRecipes())
	if err != nil {
		panic(err)
	}
	return t
}

// With returns a new table with extra tilts and recipes, which override existing ones.
func (t *CorrectionTable) With(tilts map[string]float64, recipes []FrameCorrection) (*CorrectionTable, error) {
	merged := make(map[string]float64, len(t.tilts)+len(tilts))
	for k, v := range t.tilts {
		merged[k] = v
	}
	for k, v := range tilts {
		merged[correctionKey(k, "")] = v
	}
	all := make([]FrameCorrection, 0, len(t.recipes)+len(recipes))
	for _, r := range t.recipes {
		all = append(all, r)
	}
	return NewCorrectionTable(merged, append(all, recipes...))
}

// Lookup returns the correction for a satellite of the provided parent: its own recipe
// first, then the parent's recipe, and then the generic tilt of the parent.
func (t *CorrectionTable) Lookup(parent, satellite string) (FrameCorrection, error) {
	if strings.TrimSpace(parent) == "" {
		return FrameCorrection{Strategy: Identity}, nil
	}
	if satellite != "" {
		if r, ok := t.recipes[correctionKey(parent, satellite)]; ok {
			return r, nil
		}
	}
	if r, ok := t.recipes[correctionKey(parent, "")]; ok {
		return r, nil
	}
	tilt, ok := t.tilts[correctionKey(parent, "")]
	if !ok {
		return FrameCorrection{}, fmt.Errorf("%w: %s", ErrUnknownParent, parent)
	}
	return FrameCorrection{Parent: parent, Strategy: GenericTilt, Steps: []FrameRotation{
		{AxisX, tilt, "axial tilt"},
	}}, nil
}

// Apply maps points from the equatorial frame of parent onto the ecliptic.
func (t *CorrectionTable) Apply(points []r3.Vec, parent, satellite string) ([]r3.Vec, error) {
	fc, err := t.Lookup(parent, satellite)
	if err != nil {
		return nil, err
	}
	return fc.Apply(points)
}

// Parents returns the sorted names (lower case) of every parent known to this table.
func (t *CorrectionTable) Parents() []string {
	seen := make(map[string]bool)
	for k := range t.tilts {
		seen[k] = true
	}
	for _, r := range t.recipes {
		seen[correctionKey(r.Parent, "")] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

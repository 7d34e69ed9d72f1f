package orrery

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Catalog is a read-only table of orbital elements, known periods and secular models.
// It is built once and shared between goroutines; none of its methods mutate it.
type Catalog struct {
	elements map[string]Elements
	periods  map[string]Period
	secular  map[string]SecularElements
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewCatalog returns a catalog of the provided objects. Periods are in days; an object in
// unbound has an undetermined period. The period of each element set is also recorded
// unless it is undetermined.
func NewCatalog(elements []Elements, periods map[string]float64, unbound []string, secular []SecularElements) *Catalog {
	c := &Catalog{
		elements: make(map[string]Elements, len(elements)),
		periods:  make(map[string]Period, len(periods)+len(unbound)),
		secular:  make(map[string]SecularElements, len(secular)),
	}
	for _, el := range elements {
		c.elements[catalogKey(el.Name)] = el
		if el.Period.Known() {
			c.periods[catalogKey(el.Name)] = el.Period
		}
	}
	for _, s := range secular {
		c.secular[catalogKey(s.Base.Name)] = s
		if s.Base.Period.Known() {
			c.periods[catalogKey(s.Base.Name)] = s.Base.Period
		}
	}
	for name, days := range periods {
		c.periods[catalogKey(name)] = Days(days)
	}
	for _, name := range unbound {
		c.periods[catalogKey(name)] = Undetermined()
	}
	return c
}

// Merge returns a new catalog with the objects of c overridden by those of o.
func (c *Catalog) Merge(o *Catalog) *Catalog {
	m := &Catalog{
		elements: make(map[string]Elements, len(c.elements)+len(o.elements)),
		periods:  make(map[string]Period, len(c.periods)+len(o.periods)),
		secular:  make(map[string]SecularElements, len(c.secular)+len(o.secular)),
	}
	for _, src := range []*Catalog{c, o} {
		for k, v := range src.elements {
			m.elements[k] = v
			delete(m.secular, k)
		}
		for k, v := range src.periods {
			m.periods[k] = v
		}
		for k, v := range src.secular {
			m.secular[k] = v
			delete(m.elements, k)
		}
	}
	return m
}

// Elements returns the elements of the named object at the provided date. Only secular
// models depend on the date.
func (c *Catalog) Elements(name string, dt time.Time) (Elements, error) {
	if s, ok := c.secular[catalogKey(name)]; ok {
		return s.ElementsAt(dt), nil
	}
	if el, ok := c.elements[catalogKey(name)]; ok {
		return el, nil
	}
	return Elements{}, fmt.Errorf("%w `%s`", ErrUnknownBody, name)
}

// Period returns the known period of the named object, or the undetermined Period.
// It is a PeriodLookup.
func (c *Catalog) Period(name string) Period {
	return c.periods[catalogKey(name)]
}

// Names returns the sorted names of every object of the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.elements)+len(c.secular))
	for _, el := range c.elements {
		names = append(names, el.Name)
	}
	for _, s := range c.secular {
		names = append(names, s.Base.Name)
	}
	sort.Strings(names)
	return names
}

// AllNames is a convenience returning every name of the catalog but those matching skip.
func (c *Catalog) AllNames(skip ...string) []string {
	var names []string
outer:
	for _, n := range c.Names() {
		for _, s := range skip {
			if strings.EqualFold(s, n) {
				continue outer
			}
		}
		names = append(names, n)
	}
	return names
}

// catalogFile is the TOML layout of a catalog file.
type catalogFile struct {
	Objects []struct {
		Name    string    `toml:"name"`
		Parent  string    `toml:"parent"`
		A       float64   `toml:"a"`
		E       float64   `toml:"e"`
		I       float64   `toml:"i"`
		ArgPeri float64   `toml:"arg_peri"`
		RAAN    float64   `toml:"raan"`
		TP      float64   `toml:"tp"`
		M0      float64   `toml:"m0"`
		Epoch   time.Time `toml:"epoch"`
		Period  *float64  `toml:"period"`
	} `toml:"objects"`
	Periods map[string]float64 `toml:"periods"`
	Unbound []string           `toml:"unbound"`
}

// ParseCatalog decodes a TOML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "could not decode catalog")
	}
	elements := make([]Elements, 0, len(f.Objects))
	for _, o := range f.Objects {
		el := Elements{Name: o.Name, Parent: o.Parent, A: o.A, E: o.E, I: o.I, ArgPeri: o.ArgPeri, RAAN: o.RAAN, TP: o.TP, M0: o.M0, Epoch: o.Epoch}
		if o.Period != nil {
			el.Period = Days(*o.Period)
		}
		if err := el.Validate(); err != nil {
			return nil, errors.Wrapf(err, "catalog object #%d", len(elements))
		}
		elements = append(elements, el)
	}
	return NewCatalog(elements, f.Periods, f.Unbound, nil), nil
}

// LoadCatalog reads a TOML catalog file and merges it over the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read catalog %s", path)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return DefaultCatalog().Merge(c), nil
}

// DefaultCatalog returns the built-in catalog: J2000 planetary elements (ecliptic), a few
// satellites (parent equator), comets and interstellar objects, and the secular models.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultElements(), map[string]float64{
		"Mercury": 87.969,
		"Venus":   224.701,
		"Earth":   365.256,
		"Mars":    686.980,
		"Jupiter": 4332.589,
		"Saturn":  10759.22,
		"Uranus":  30685.4,
		"Neptune": 60189.0,
		"Pluto":   90560.0,
		"Triton":  5.876854,
		"Phoebe":  550.31,
		"Charon":  6.387230,
		"Titania": 8.706234,
		"Halley":  27509.1,
	}, []string{"1I/'Oumuamua", "3I/ATLAS"}, []SecularElements{MoonModel(), PhobosModel(), DeimosModel()})
}

func defaultElements() []Elements {
	return []Elements{
		{Name: "Mercury", M0: 174.79252722, A: 0.38709927, E: 0.20563593, I: 7.00497902, ArgPeri: 29.12703035, RAAN: 48.33076593, Epoch: J2000},
		{Name: "Venus", M0: 50.37663232, A: 0.72333566, E: 0.00677672, I: 3.39467605, ArgPeri: 54.92262463, RAAN: 76.67984255, Epoch: J2000},
		{Name: "Earth", M0: 357.51821, A: 1.0, E: 0.01671, I: 0.00005, ArgPeri: 114.207, RAAN: -11.26064, Epoch: J2000},
		{Name: "Mars", M0: 19.39019754, A: 1.52371034, E: 0.09339410, I: 1.84969142, ArgPeri: 286.49683150, RAAN: 49.55953891, Epoch: J2000},
		{Name: "Jupiter", M0: 19.66796068, A: 5.20288700, E: 0.04838624, I: 1.30439695, ArgPeri: 274.25457074, RAAN: 100.47390909, Epoch: J2000},
		{Name: "Saturn", M0: 317.35536592, A: 9.53667594, E: 0.05386179, I: 2.48599187, ArgPeri: 338.93645383, RAAN: 113.66242448, Epoch: J2000},
		{Name: "Uranus", M0: 142.28382821, A: 19.18916464, E: 0.04725744, I: 0.77263783, ArgPeri: 96.93735127, RAAN: 74.01692503, Epoch: J2000},
		{Name: "Neptune", M0: 259.91520804, A: 30.06992276, E: 0.00859048, I: 1.77004347, ArgPeri: 273.18053653, RAAN: 131.78422574, Epoch: J2000},
		{Name: "Pluto", M0: 14.86012204, A: 39.48211675, E: 0.24882730, I: 17.14001206, ArgPeri: 113.76497945, RAAN: 110.30393684, Epoch: J2000},
		{Name: "Triton", Parent: "Neptune", A: 354759 / AU, E: 0.000016, I: 156.865, ArgPeri: 66.142, RAAN: 177.608},
		{Name: "Phoebe", Parent: "Saturn", A: 12944300 / AU, E: 0.1562, I: 175.243, ArgPeri: 240.3, RAAN: 241.57},
		{Name: "Charon", Parent: "Pluto", A: 19591 / AU, E: 0.0002, I: 0.080, ArgPeri: 146.106, RAAN: 26.928},
		{Name: "Titania", Parent: "Uranus", A: 435910 / AU, E: 0.0011, I: 0.340, ArgPeri: 284.4, RAAN: 99.771},
		{Name: "Halley", A: 17.834, E: 0.96714, I: 162.26, ArgPeri: 111.33, RAAN: 58.42, TP: 2446470.5},
		{Name: "1I/'Oumuamua", A: -1.2723, E: 1.20113, I: 122.74, ArgPeri: 241.81, RAAN: 24.597, TP: 2458006.007},
		{Name: "3I/ATLAS", A: -0.2636, E: 6.1511, I: 175.113, ArgPeri: 128.01, RAAN: 322.157, TP: 2460977.98},
	}
}

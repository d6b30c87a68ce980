package io

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/projector"
	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/material"
	"github.com/phil-mansfield/projector/tally"
	"github.com/phil-mansfield/projector/xs"
)

type SimulationConfig struct {
	// Required
	DomainMin, DomainMax string
	DataDir, OutputDir   string

	// Optional
	Name, Description    string
	Seed                 int64
	EnergyCutoff         float64
	StackSize            int
	SaveParticlePaths    bool
	Threads              int
	LogFile, ProfileFile string
}

func (con *SimulationConfig) ValidDataDir() bool     { return con.DataDir != "" }
func (con *SimulationConfig) ValidOutput() bool      { return con.OutputDir != "" }
func (con *SimulationConfig) ValidStackSize() bool   { return con.StackSize >= 2 }
func (con *SimulationConfig) ValidThreads() bool     { return con.Threads > 0 }
func (con *SimulationConfig) ValidLogFile() bool     { return con.LogFile != "" }
func (con *SimulationConfig) ValidProfileFile() bool { return con.ProfileFile != "" }
func (con *SimulationConfig) ValidEnergyCutoff() bool {
	return con.EnergyCutoff >= 0
}

// Domain returns the simulation box.
func (con *SimulationConfig) Domain() (geom.BoundingBox, error) {
	min, err := parseVec(con.DomainMin)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("DomainMin: %s", err.Error())
	}
	max, err := parseVec(con.DomainMax)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("DomainMax: %s", err.Error())
	}
	return geom.NewBoundingBox(min, max), nil
}

func (con *SimulationConfig) CheckInit() error {
	if !con.ValidDataDir() {
		return fmt.Errorf("Need to specify a DataDir for Simulation.")
	} else if !con.ValidOutput() {
		return fmt.Errorf("Need to specify an OutputDir for Simulation.")
	} else if !con.ValidStackSize() {
		return fmt.Errorf("StackSize must be at least 2, but is %d.", con.StackSize)
	} else if !con.ValidEnergyCutoff() {
		return fmt.Errorf("EnergyCutoff must be non-negative, but is %g.", con.EnergyCutoff)
	}

	box, err := con.Domain()
	if err != nil {
		return err
	} else if size := box.Size(); !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return fmt.Errorf("The simulation domain %v has no volume.", box)
	}
	return nil
}

type MaterialConfig struct {
	// Required
	Density float64

	// Either Formula or Element together with one of AtomicPercentage and
	// WeightPercentage.
	Formula          string
	Element          []string
	AtomicPercentage []float64
	WeightPercentage []float64
}

func (con *MaterialConfig) CheckInit(name string) error {
	if con.Density <= 0 {
		return fmt.Errorf("Need to specify a positive Density for Material '%s'.", name)
	}

	if con.Formula != "" {
		if len(con.Element) > 0 {
			return fmt.Errorf(
				"Material '%s' specifies both a Formula and Element list.", name,
			)
		}
		_, err := material.ParseFormula(con.Formula)
		return err
	}

	n := len(con.Element)
	if n == 0 {
		return fmt.Errorf("Material '%s' needs a Formula or Element list.", name)
	}
	na, nw := len(con.AtomicPercentage), len(con.WeightPercentage)
	if (na == 0) == (nw == 0) {
		return fmt.Errorf(
			"Material '%s' needs exactly one of AtomicPercentage and WeightPercentage.",
			name,
		)
	} else if na != n && nw != n {
		return fmt.Errorf(
			"Material '%s' has %d elements but %d percentages.", name, n, na+nw,
		)
	}
	for _, sym := range con.Element {
		if _, err := parseElement(sym); err != nil {
			return fmt.Errorf("Material '%s': %s", name, err.Error())
		}
	}
	return nil
}

// Material creates the material described by the config.
func (con *MaterialConfig) Material() (*material.Material, error) {
	if con.Formula != "" {
		return material.FromFormula(con.Density, con.Formula)
	}

	zs := make([]int, len(con.Element))
	for i, sym := range con.Element {
		z, err := parseElement(sym)
		if err != nil {
			return nil, err
		}
		zs[i] = z
	}
	atomic := append([]float64(nil), con.AtomicPercentage...)
	weight := append([]float64(nil), con.WeightPercentage...)
	if len(atomic) == 0 {
		atomic = nil
	}
	if len(weight) == 0 {
		weight = nil
	}
	return material.New(con.Density, zs, atomic, weight), nil
}

type SurfaceConfig struct {
	// Required
	Type   string
	Center string

	// Type-dependent
	Normal  string
	A, B, C float64
}

func (con *SurfaceConfig) CheckInit(name string) error {
	_, err := con.Surface()
	if err != nil {
		return fmt.Errorf("Surface '%s': %s", name, err.Error())
	}
	return nil
}

// Surface creates the surface described by the config.
func (con *SurfaceConfig) Surface() (geom.Surface, error) {
	st, err := geom.ParseSurfaceType(con.Type)
	if err != nil {
		return nil, err
	}
	center, err := parseVec(con.Center)
	if err != nil {
		return nil, fmt.Errorf("Center: %s", err.Error())
	}

	if st == geom.PlaneType {
		normal, err := parseVec(con.Normal)
		if err != nil {
			return nil, fmt.Errorf("Normal: %s", err.Error())
		} else if normal.Norm2() == 0 {
			return nil, fmt.Errorf("Normal must be non-zero.")
		}
		return geom.NewPlane(center, normal), nil
	}

	needC := st == geom.EllipsoidType || st >= geom.XConeType
	if con.A <= 0 || con.B <= 0 || (needC && con.C <= 0) {
		return nil, fmt.Errorf(
			"A, B and C must be positive for a %s, but are %g, %g and %g.",
			con.Type, con.A, con.B, con.C,
		)
	}

	switch st {
	case geom.EllipsoidType:
		return geom.NewEllipsoid(center, con.A, con.B, con.C), nil
	case geom.XCylinderType, geom.YCylinderType, geom.ZCylinderType:
		axis := geom.Axis(st - geom.XCylinderType)
		return geom.NewCylinder(axis, center, con.A, con.B), nil
	default:
		axis := geom.Axis(st - geom.XConeType)
		return geom.NewCone(axis, center, con.A, con.B, con.C), nil
	}
}

type GeometryConfig struct {
	// Item has the form "<operation> <surface or geometry name>" and may be
	// repeated. Items are applied in order.
	Item []string
}

type ObjectConfig struct {
	// Required
	Material, Geometry string

	// Optional
	Order                int
	BoundsMin, BoundsMax string
	PhotonCount          int
	PhotonEnergy         float64
	Direction            string
	Spread               float64
}

func (con *ObjectConfig) ValidBounds() bool {
	return con.BoundsMin != "" || con.BoundsMax != ""
}
func (con *ObjectConfig) ValidSource() bool { return con.PhotonCount > 0 }

func (con *ObjectConfig) CheckInit(name string, cfg *Config) error {
	if _, ok := cfg.Material[con.Material]; !ok {
		return fmt.Errorf("Object '%s' uses unknown Material '%s'.", name, con.Material)
	} else if _, ok := cfg.Geometry[con.Geometry]; !ok {
		return fmt.Errorf("Object '%s' uses unknown Geometry '%s'.", name, con.Geometry)
	}

	if con.ValidBounds() {
		if _, err := parseVec(con.BoundsMin); err != nil {
			return fmt.Errorf("Object '%s' BoundsMin: %s", name, err.Error())
		} else if _, err := parseVec(con.BoundsMax); err != nil {
			return fmt.Errorf("Object '%s' BoundsMax: %s", name, err.Error())
		}
	}

	if con.PhotonCount < 0 {
		return fmt.Errorf("Object '%s' has a negative PhotonCount.", name)
	} else if con.ValidSource() {
		if con.PhotonEnergy <= 0 {
			return fmt.Errorf(
				"Object '%s' emits photons, so it needs a positive PhotonEnergy.", name,
			)
		} else if con.Spread < 0 {
			return fmt.Errorf("Object '%s' has a negative Spread.", name)
		}
		if con.Direction != "" {
			if _, err := parseVec(con.Direction); err != nil {
				return fmt.Errorf("Object '%s' Direction: %s", name, err.Error())
			}
		}
	}
	return nil
}

type TallyConfig struct {
	// Required
	Score, Start, End, Resolution string
}

func (con *TallyConfig) CheckInit(name string) error {
	_, err := con.Tally(name)
	return err
}

// Tally creates the mesh tally described by the config.
func (con *TallyConfig) Tally(name string) (*tally.UniformMesh, error) {
	score, err := tally.ParseScore(con.Score)
	if err != nil {
		return nil, fmt.Errorf("Tally '%s': %w", name, err)
	}
	start, err := parseVec(con.Start)
	if err != nil {
		return nil, fmt.Errorf("Tally '%s' Start: %s", name, err.Error())
	}
	end, err := parseVec(con.End)
	if err != nil {
		return nil, fmt.Errorf("Tally '%s' End: %s", name, err.Error())
	}
	res, err := parseRes(con.Resolution)
	if err != nil {
		return nil, fmt.Errorf("Tally '%s' Resolution: %s", name, err.Error())
	}
	return tally.NewUniformMesh(name, start, end, res, score)
}

// Config is the full description of a run.
type Config struct {
	Simulation SimulationConfig
	Material   map[string]*MaterialConfig
	Surface    map[string]*SurfaceConfig
	Geometry   map[string]*GeometryConfig
	Object     map[string]*ObjectConfig
	Tally      map[string]*TallyConfig
}

// DefaultConfig returns a Config with every optional parameter set to its
// default.
func DefaultConfig() *Config {
	con := SimulationConfig{}
	con.Name = "projector"
	con.Seed = 1
	con.EnergyCutoff = 1e3
	con.StackSize = 1000
	con.Threads = -1
	return &Config{Simulation: con}
}

// ReadConfig reads a config file.
func ReadConfig(fname string) (*Config, error) {
	cfg := DefaultConfig()
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig reads a config from a string.
func ParseConfig(text string) (*Config, error) {
	cfg := DefaultConfig()
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckInit validates every section of the config and the references
// between them.
func (cfg *Config) CheckInit() error {
	if err := cfg.Simulation.CheckInit(); err != nil {
		return err
	}
	for _, name := range sortedKeys(cfg.Material) {
		if err := cfg.Material[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Surface) {
		if err := cfg.Surface[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Geometry) {
		if _, err := cfg.buildGeometry(name, map[string]bool{}); err != nil {
			return err
		}
	}
	if len(cfg.Object) == 0 {
		return fmt.Errorf("Need to specify at least one Object.")
	}
	for _, name := range sortedKeys(cfg.Object) {
		if err := cfg.Object[name].CheckInit(name, cfg); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Tally) {
		if err := cfg.Tally[name].CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// buildGeometry constructs a fresh copy of the named geometry, so that every
// reference to a sub-geometry gets its own tree.
func (cfg *Config) buildGeometry(name string, visiting map[string]bool) (*geom.Geometry, error) {
	gc, ok := cfg.Geometry[name]
	if !ok {
		return nil, fmt.Errorf("Unknown Geometry '%s'.", name)
	} else if visiting[name] {
		return nil, fmt.Errorf("Geometry '%s' contains itself.", name)
	} else if len(gc.Item) == 0 {
		return nil, fmt.Errorf("Geometry '%s' has no Items.", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	g := geom.NewGeometry()
	for i, item := range gc.Item {
		fields := strings.Fields(item)
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"Item %d of Geometry '%s' should be '<operation> <name>', not '%s'.",
				i, name, item,
			)
		}
		op, err := geom.ParseOp(fields[0])
		if err != nil {
			return nil, fmt.Errorf("Geometry '%s': %s", name, err.Error())
		} else if i == 0 && op != geom.Join {
			return nil, fmt.Errorf(
				"The first Item of Geometry '%s' must be a join.", name,
			)
		}

		_, isSurface := cfg.Surface[fields[1]]
		_, isGeometry := cfg.Geometry[fields[1]]
		switch {
		case isSurface && isGeometry:
			return nil, fmt.Errorf("'%s' is both a Surface and a Geometry.", fields[1])
		case isSurface:
			s, err := cfg.Surface[fields[1]].Surface()
			if err != nil {
				return nil, fmt.Errorf("Surface '%s': %s", fields[1], err.Error())
			}
			g.Add(op, s)
		case isGeometry:
			sub, err := cfg.buildGeometry(fields[1], visiting)
			if err != nil {
				return nil, err
			}
			g.Add(op, sub)
		default:
			return nil, fmt.Errorf(
				"Geometry '%s' refers to unknown Surface '%s'.", name, fields[1],
			)
		}
	}
	return g, nil
}

// Settings converts the Simulation section to run settings.
func (cfg *Config) Settings() (projector.Settings, error) {
	con := &cfg.Simulation
	domain, err := con.Domain()
	if err != nil {
		return projector.Settings{}, err
	}
	return projector.Settings{
		Name:              con.Name,
		Description:       con.Description,
		Seed:              uint64(con.Seed),
		EnergyCutoff:      con.EnergyCutoff,
		StackSize:         con.StackSize,
		Domain:            domain,
		OutputDir:         con.OutputDir,
		SaveParticlePaths: con.SaveParticlePaths,
	}, nil
}

// Build creates a simulation context from a validated config. Objects are
// added in order of their Order parameter, with ties broken by name.
func (cfg *Config) Build(lib *xs.Library) (*projector.SimulationContext, error) {
	s, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	ctx, err := projector.NewSimulationContext(s, lib)
	if err != nil {
		return nil, err
	}
	if cfg.Simulation.ValidThreads() {
		ctx.Workers = cfg.Simulation.Threads
	}

	mats := map[string]*material.Material{}
	for _, name := range sortedKeys(cfg.Material) {
		mat, err := cfg.Material[name].Material()
		if err != nil {
			return nil, fmt.Errorf("Material '%s': %w", name, err)
		}
		if err := mat.CalculateMissingValues(lib); err != nil {
			return nil, fmt.Errorf("Material '%s': %w", name, err)
		}
		mats[name] = mat
	}

	names := sortedKeys(cfg.Object)
	sort.SliceStable(names, func(i, j int) bool {
		return cfg.Object[names[i]].Order < cfg.Object[names[j]].Order
	})
	for _, name := range names {
		obj, err := cfg.object(name, mats)
		if err != nil {
			return nil, err
		}
		if err := ctx.AddObject(obj); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(cfg.Tally) {
		t, err := cfg.Tally[name].Tally(name)
		if err != nil {
			return nil, err
		}
		ctx.AddTally(t)
	}
	return ctx, nil
}

func (cfg *Config) object(name string, mats map[string]*material.Material) (*projector.Object, error) {
	con := cfg.Object[name]
	g, err := cfg.buildGeometry(con.Geometry, map[string]bool{})
	if err != nil {
		return nil, err
	}
	mat, ok := mats[con.Material]
	if !ok {
		return nil, fmt.Errorf("Object '%s' uses unknown Material '%s'.", name, con.Material)
	}

	obj := &projector.Object{
		Name: name, MaterialName: con.Material, Material: mat, Geometry: g,
	}
	if con.ValidBounds() {
		min, err := parseVec(con.BoundsMin)
		if err != nil {
			return nil, err
		}
		max, err := parseVec(con.BoundsMax)
		if err != nil {
			return nil, err
		}
		box := geom.NewBoundingBox(min, max)
		obj.Bounds = &box
	}

	if con.ValidSource() {
		src := &projector.Source{
			PhotonCount:  con.PhotonCount,
			PhotonEnergy: con.PhotonEnergy,
			Spread:       con.Spread,
		}
		if con.Direction != "" {
			if src.Direction, err = parseVec(con.Direction); err != nil {
				return nil, err
			}
		}
		obj.Source = src
	}
	return obj, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseVec reads a whitespace-separated triple like "1 0 -2.5".
func parseVec(s string) (r3.Vector, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return r3.Vector{}, fmt.Errorf("'%s' is not a vector of three numbers", s)
	}
	var xs [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(x) {
			return r3.Vector{}, fmt.Errorf("'%s' is not a vector of three numbers", s)
		}
		xs[i] = x
	}
	return geom.Vec(xs), nil
}

func parseRes(s string) ([3]int, error) {
	fields := strings.Fields(s)
	res := [3]int{}
	if len(fields) != 3 {
		return res, fmt.Errorf("'%s' is not a triple of positive integers", s)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return res, fmt.Errorf("'%s' is not a triple of positive integers", s)
		}
		res[i] = n
	}
	return res, nil
}

// parseElement accepts element symbols and atomic numbers.
func parseElement(s string) (int, error) {
	if z, err := strconv.Atoi(s); err == nil {
		if z < 1 || z > xs.MaxZ {
			return 0, fmt.Errorf("atomic number %d is not in [1, %d]", z, xs.MaxZ)
		}
		return z, nil
	}
	return material.AtomicNumber(s)
}

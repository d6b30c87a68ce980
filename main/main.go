package main

import (
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"
	"path"
	"runtime/pprof"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/projector"
	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/io"
	"github.com/phil-mansfield/projector/plot"
	"github.com/phil-mansfield/projector/tally"
	"github.com/phil-mansfield/projector/xs"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

var (
	threads    int
	dataDir    string
	plotDir    string
	maxTracks  int
	sliceAxis  string
	center     float64
	resolution string
)

func main() {
	var (
		run, validate, visualize string
		exampleConfig            string
	)
	vars := map[string]*string{
		"Run":           &run,
		"Validate":      &validate,
		"Visualize":     &visualize,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(&run, "Run", "", "Configuration file for [Run] mode.")
	flag.StringVar(
		&validate, "Validate", "",
		"Configuration file for [Validate] mode, which checks the file and "+
			"the data library without transporting any particles.",
	)
	flag.StringVar(
		&visualize, "Visualize", "",
		"Configuration file for [Visualize] mode, which writes a table and "+
			"an image of the objects on a slice through the domain.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Run'.",
	)

	flag.IntVar(
		&threads, "Threads", 0,
		"Number of threads used. Default is the Threads value of the "+
			"configuration file or, if that isn't set, the number of "+
			"logical cores.",
	)
	flag.StringVar(
		&dataDir, "Data", "", "Overrides the DataDir of the configuration file.",
	)
	flag.StringVar(
		&plotDir, "Plot", "",
		"In [Run] mode, directory to write track and tally profile plots "+
			"to. Requires python and matplotlib.",
	)
	flag.IntVar(
		&maxTracks, "MaxTracks", 100, "Maximum number of tracks plotted.",
	)
	flag.StringVar(
		&sliceAxis, "Slice", "z", "Axis perpendicular to the [Visualize] slice.",
	)
	flag.Float64Var(
		&center, "Center", 0, "Position of the [Visualize] slice along its axis.",
	)
	flag.StringVar(
		&resolution, "Resolution", "512x512",
		"Pixel dimensions of the [Visualize] slice, as <width>x<height>.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		ctx, fg := setup(run)
		defer fg.Close()
		runMain(ctx)
	case "Validate":
		ctx, fg := setup(validate)
		defer fg.Close()
		log.Printf(
			"'%s' is valid: %d objects, %d tallies.",
			validate, len(ctx.Objects), len(ctx.Tallies),
		)
	case "Visualize":
		ctx, fg := setup(visualize)
		defer fg.Close()
		visualizeMain(ctx)
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleConfigFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but projector "+
				"only accepts one mode flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// setup reads and validates a configuration file, opens its log and profile
// files and builds the simulation context.
func setup(fname string) (*projector.SimulationContext, *FileGroup) {
	cfg, err := io.ReadConfig(fname)
	if err != nil {
		log.Fatal(err.Error())
	}
	if dataDir != "" {
		cfg.Simulation.DataDir = dataDir
	}
	if threads > 0 {
		cfg.Simulation.Threads = threads
	}
	if err := cfg.CheckInit(); err != nil {
		log.Fatal(err.Error())
	}

	fg := &FileGroup{}
	con := &cfg.Simulation
	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}
	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		pprof.StartCPUProfile(fg.prof)
	}

	lib, err := xs.ReadLibrary(con.DataDir)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Read %d elements from %s.", len(lib.AtomicNumbers()), con.DataDir)

	ctx, err := cfg.Build(lib)
	if err != nil {
		log.Fatal(err.Error())
	}
	return ctx, fg
}

func runMain(ctx *projector.SimulationContext) {
	if err := ctx.Run(); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Wrote output to %s.", ctx.OutputDir)

	if plotDir == "" {
		return
	}
	if err := os.MkdirAll(plotDir, 0755); err != nil {
		log.Fatal(err.Error())
	}

	for _, axis := range []geom.Axis{geom.X, geom.Y, geom.Z} {
		plot.Tracks(
			ctx.Particles, axis, maxTracks,
			path.Join(plotDir, fmt.Sprintf("tracks_%s.png", axis)),
		)
	}
	for _, t := range ctx.Tallies {
		mesh, ok := t.(*tally.UniformMesh)
		if !ok {
			continue
		}
		for _, axis := range []geom.Axis{geom.X, geom.Y, geom.Z} {
			plot.TallyProfile(
				mesh, axis, 0,
				path.Join(plotDir, fmt.Sprintf("%s_%s.png", mesh.ID(), axis)),
			)
		}
	}
	plt.Execute()
}

func visualizeMain(ctx *projector.SimulationContext) {
	var axis geom.Axis
	switch sliceAxis {
	case "x":
		axis = geom.X
	case "y":
		axis = geom.Y
	case "z":
		axis = geom.Z
	default:
		log.Fatalf("'Slice' must be one of x, y, or z, not '%s'.", sliceAxis)
	}

	var width, height int
	n, err := fmt.Sscanf(resolution, "%dx%d", &width, &height)
	if err != nil || n != 2 {
		log.Fatalf("'Resolution' must have the form <width>x<height>, not '%s'.",
			resolution)
	}

	s, err := plot.NewSlice(ctx, axis, center, width, height)
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := os.MkdirAll(ctx.OutputDir, 0755); err != nil {
		log.Fatal(err.Error())
	}
	base := path.Join(ctx.OutputDir, fmt.Sprintf("slice_%s", axis))

	writeFile(base+".csv", s.WriteTable)
	writeFile(base+".png", s.WritePNG)
	log.Printf("Wrote %s.csv and %s.png.", base, base)
}

func writeFile(fname string, write func(w goio.Writer) error) {
	f, err := os.Create(fname)
	if err != nil {
		log.Fatal(err.Error())
	}
	if err := write(f); err != nil {
		log.Fatal(err.Error())
	}
	if err := f.Close(); err != nil {
		log.Fatal(err.Error())
	}
}

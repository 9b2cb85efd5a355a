package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/internal/config"
	"github.com/njchilds90/dcp/internal/lawspec"
	"github.com/njchilds90/dcp/internal/runid"
)

const banner = `Dynamical Casimir package (release date: 2022)(c)
by Danilo T. Alves and Edney R. Granhen.
The authors kindly request that this software be referenced,
if it is used in work resulting in publication, by citing
the corresponding article in  Comp. Phys. Communications.`

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "dcp",
		Usage:   "Particle creation by a moving mirror",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "JSON config file (default: nearest .dcp/config.json)"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent terms in the spectrum sums"},
			&cli.Float64Flag{Name: "epsrel", Usage: "Relative quadrature tolerance"},
			&cli.BoolFlag{Name: "rebracket", Usage: "Search a fresh bracket for every reflection"},
			&cli.BoolFlag{Name: "quiet", Usage: "Suppress run logging"},
		},
		Commands: []*cli.Command{
			reflectCmd(),
			mooreCmd(),
			bogoliubovCmd(),
			quantaCmd(),
			spectrumCmd(),
			energyCmd(),
			aboutCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// lawFlags describe the law of motion on the command line.
func lawFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "law", Aliases: []string{"l"}, Value: lawspec.KindStatic, Usage: "Law of motion: static|sinusoidal|logcosh|law1994"},
		&cli.Float64Flag{Name: "l0", Value: 1, Usage: "Rest length L0"},
		&cli.Float64Flag{Name: "e", Usage: "Amplitude"},
		&cli.Float64Flag{Name: "q", Value: 1, Usage: "Frequency in units of pi/L0 (sinusoidal)"},
		&cli.IntFlag{Name: "s", Value: 1, Usage: "Power of the sine (sinusoidal)"},
		&cli.Float64Flag{Name: "theta", Usage: "Phase (law1994)"},
		&cli.Float64Flag{Name: "tmax", Usage: "End of the motion, 0 for none"},
	}
}

func withLaw(flags ...cli.Flag) []cli.Flag {
	return append(lawFlags(), flags...)
}

// env is what every computing command needs.
type env struct {
	engine *dcp.Engine
	law    dcp.Law
	log    *log.Logger
}

// setup loads the config, applies flag overrides and builds the law.
func setup(c *cli.Context) (*env, error) {
	id := runid.New()
	logger := log.New(c.App.ErrWriter, fmt.Sprintf("dcp [%s] ", id), log.LstdFlags)
	if c.Bool("quiet") {
		logger.SetOutput(io.Discard)
	}

	file, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	cfg := dcp.MergeConfig(file.Engine, dcp.Config{
		Workers:    c.Int("workers"),
		QuadEpsRel: c.Float64("epsrel"),
		Rebracket:  c.Bool("rebracket"),
	})
	cfg.Logger = logger
	engine, err := dcp.New(cfg)
	if err != nil {
		return nil, err
	}

	spec := file.Law
	if spec == nil || c.IsSet("law") {
		spec = &lawspec.Spec{
			Kind:  c.String("law"),
			L0:    c.Float64("l0"),
			E:     c.Float64("e"),
			Q:     c.Float64("q"),
			S:     c.Int("s"),
			Theta: c.Float64("theta"),
			Tmax:  c.Float64("tmax"),
		}
	}
	law, err := spec.Build()
	if err != nil {
		return nil, err
	}
	logger.Printf("%s: law %s", c.Command.Name, spec.Kind)
	return &env{engine: engine, law: law, log: logger}, nil
}

func loadConfig(path string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	globalDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalDir = filepath.Join(home, ".dcp")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Load("")
	}
	return config.LoadNearest(globalDir, cwd)
}

// reflectCmd creates the reflect command.
func reflectCmd() *cli.Command {
	return &cli.Command{
		Name:  "reflect",
		Usage: "Trace the null line ending at z back through its reflections",
		Flags: withLaw(
			&cli.Float64Flag{Name: "z", Required: true, Usage: "End point of the null line"},
			&cli.IntFlag{Name: "selector", Value: int(dcp.SelectAll), Usage: "1 count, 2 final position, 3 both, 4 all"},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			res, err := e.engine.ReflectionCounter(e.law, c.Float64("z"), dcp.Selector(c.Int("selector")))
			if err != nil {
				return outputError(c, err)
			}
			return outputJSON(c, res)
		},
	}
}

// mooreCmd creates the moore command.
func mooreCmd() *cli.Command {
	return &cli.Command{
		Name:  "moore",
		Usage: "Evaluate Moore's function R(z)",
		Flags: withLaw(&cli.Float64Flag{Name: "z", Required: true, Usage: "Argument of R"}),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			r, err := e.engine.Moore(e.law, c.Float64("z"))
			if err != nil {
				return outputError(c, err)
			}
			return outputJSON(c, map[string]float64{"z": c.Float64("z"), "r": r})
		},
	}
}

func modeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "t", Required: true, Usage: "Time"},
		&cli.IntFlag{Name: "n", Value: 1, Usage: "Mode n"},
		&cli.IntFlag{Name: "m", Value: 1, Usage: "Mode m"},
		&cli.Float64Flag{Name: "b", Value: dcp.DirichletDirichlet, Usage: "Boundary condition: 0 Dirichlet-Dirichlet, 0.5 Neumann-Dirichlet"},
	}
}

// bogoliubovCmd creates the bogoliubov command.
func bogoliubovCmd() *cli.Command {
	return &cli.Command{
		Name:  "bogoliubov",
		Usage: "Compute the Bogoliubov coefficients alpha_mn(t) and beta_mn(t)",
		Flags: withLaw(modeFlags()...),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			coef, err := e.engine.Bogoliubov(c.Float64("t"), c.Int("m"), c.Int("n"), c.Float64("b"), e.law)
			if err != nil {
				return outputError(c, err)
			}
			return outputJSON(c, coef)
		},
	}
}

// quantaCmd creates the quanta command.
func quantaCmd() *cli.Command {
	return &cli.Command{
		Name:  "quanta",
		Usage: "Number of quanta |beta_nm(t)|^2 for one pair of modes",
		Flags: withLaw(modeFlags()...),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			n, err := e.engine.NQuantaPerMode(c.Float64("t"), c.Int("n"), c.Int("m"), c.Float64("b"), e.law)
			if err != nil {
				return outputError(c, err)
			}
			return outputJSON(c, map[string]any{"n": c.Int("n"), "m": c.Int("m"), "quanta": n})
		},
	}
}

// spectrumCmd creates the spectrum command.
func spectrumCmd() *cli.Command {
	return &cli.Command{
		Name:  "spectrum",
		Usage: "Number of created particles, per mode with --n or in total",
		Flags: withLaw(
			&cli.Float64Flag{Name: "t", Required: true, Usage: "Time"},
			&cli.Float64Flag{Name: "b", Value: dcp.DirichletDirichlet, Usage: "Boundary condition: 0 or 0.5"},
			&cli.IntFlag{Name: "n", Usage: "Single mode n (omit for the total over n)"},
			&cli.IntFlag{Name: "nmax", Value: 10, Usage: "Largest mode n of the total"},
			&cli.IntFlag{Name: "mmax", Value: 30, Usage: "Largest mode m of each mode sum"},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			t, b := c.Float64("t"), c.Float64("b")
			if c.IsSet("n") {
				sum, err := e.engine.NParticlesPerMode(c.Context, t, c.Int("n"), b, e.law, c.Int("mmax"))
				if err != nil {
					return outputError(c, err)
				}
				return outputJSON(c, sum)
			}
			sum, err := e.engine.NParticlesPerTime(c.Context, t, e.law, b, c.Int("nmax"), c.Int("mmax"))
			if err != nil {
				return outputError(c, err)
			}
			e.log.Printf("spectrum: %d modes, converged=%v", sum.LastN, sum.Converged)
			return outputJSON(c, sum)
		},
	}
}

// energyCmd creates the energy command.
func energyCmd() *cli.Command {
	return &cli.Command{
		Name:  "energy",
		Usage: "Energy in the cavity (Dirichlet-Dirichlet) relative to the static Casimir energy",
		Flags: withLaw(&cli.Float64Flag{Name: "t", Required: true, Usage: "Time"}),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return outputError(c, err)
			}
			energy, err := e.engine.EnergyDD(c.Float64("t"), e.law)
			if err != nil {
				return outputError(c, err)
			}
			l0 := e.law.L(0)
			return outputJSON(c, map[string]float64{
				"t":       c.Float64("t"),
				"energy":  energy,
				"tcas_dd": dcp.TcasDD(l0),
				"tcas_dn": dcp.TcasDN(l0),
			})
		},
	}
}

// aboutCmd prints the release and citation notice.
func aboutCmd() *cli.Command {
	return &cli.Command{
		Name:  "about",
		Usage: "Show the release notice, citation request and version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "%s\n\nversion %s\n", banner, Version)
			return err
		},
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes the error as JSON on stderr and exits with status 1.
func outputError(c *cli.Context, err error) error {
	payload := map[string]any{"code": "INTERNAL", "message": err.Error()}
	var dErr *dcp.Error
	if errors.As(err, &dErr) {
		payload["code"] = dErr.Code
		payload["message"] = dErr.Message
		if len(dErr.Details) > 0 {
			payload["details"] = dErr.Details
		}
	}
	enc := json.NewEncoder(c.App.ErrWriter)
	if encErr := enc.Encode(map[string]any{"error": payload}); encErr != nil {
		return cli.Exit(err.Error(), 1)
	}
	return cli.Exit("", 1)
}

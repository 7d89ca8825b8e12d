// Command pschema validates property graphs against shape documents using
// the bulk-synchronous engine.
//
// Validate an N-Triples dump and export the conforming subset:
//
//	pschema validate --shapes shapes.yaml --graph dump.nt --root Person --out subset.nt
//
// Validate a SQLite edge dump:
//
//	pschema validate --shapes shapes.yaml --db dump.sqlite --root Person
//
// Inspect a shape document without running anything:
//
//	pschema shapes --shapes shapes.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/weso/pschema-go/graph"
	"github.com/weso/pschema-go/ntriples"
	"github.com/weso/pschema-go/schema"
	"github.com/weso/pschema-go/store"
	"github.com/weso/pschema-go/validator"
)

var (
	// Global flags
	debug bool

	// validate flags
	shapesPath   string
	graphPath    string
	dbPath       string
	rootShape    string
	outPath      string
	budget       int
	workers      int
	entitiesOnly bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pschema",
	Short: "Shape validation for property graphs",
	Long: `pschema validates large property graphs (Wikidata-style entity graphs)
against user-defined shape constraints, running a bulk-synchronous,
vertex-centric computation until the label assignment reaches its fixpoint.

Graphs come from N-Triples files or SQLite edge dumps; shapes come from a
YAML document. The result is a per-vertex conformance report and,
optionally, the conforming subset exported back out as N-Triples.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run shape validation over a graph",
	Long: `Loads a graph, registers the shape document, and runs the engine to
convergence (or until the superstep budget runs out, which still yields a
sound partial result).

Exactly one graph source must be given: --graph for an N-Triples file or
--db for a SQLite edge dump.`,
	RunE: runValidate,
}

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Inspect a shape document",
	Long: `Prints every shape in the document with its rules, the shapes it
depends on, and the stratified evaluation order the engine would use.`,
	RunE: runShapes,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	validateCmd.Flags().StringVar(&shapesPath, "shapes", "", "YAML shape document (required)")
	validateCmd.Flags().StringVar(&rootShape, "root", "", "root shape to judge conformance against (required)")
	validateCmd.Flags().StringVar(&graphPath, "graph", "", "N-Triples graph file")
	validateCmd.Flags().StringVar(&dbPath, "db", "", "SQLite edge dump")
	validateCmd.Flags().StringVar(&outPath, "out", "", "write the conforming subset as N-Triples to this file")
	validateCmd.Flags().IntVar(&budget, "budget", 0, "superstep budget, 0 for the engine default")
	validateCmd.Flags().IntVar(&workers, "workers", 0, "per-superstep worker count, 0 for GOMAXPROCS")
	validateCmd.Flags().BoolVar(&entitiesOnly, "entities-only", false, "load only entity-to-entity edges from --db")
	_ = validateCmd.MarkFlagRequired("shapes")
	_ = validateCmd.MarkFlagRequired("root")

	shapesCmd.Flags().StringVar(&shapesPath, "shapes", "", "YAML shape document (required)")
	_ = shapesCmd.MarkFlagRequired("shapes")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(shapesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop at the next superstep barrier on Ctrl-C; the partial report
	// still comes back.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	reg, err := schema.LoadYAML(shapesPath)
	if err != nil {
		return err
	}

	g, err := loadGraph(ctx)
	if err != nil {
		return err
	}
	logger.Info("graph loaded",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("edges", g.EdgeCount()),
	)

	rep, err := validator.Validate(ctx, g, reg, rootShape,
		validator.WithLogger(logger),
		validator.WithMaxSupersteps(budget),
		validator.WithParallelism(workers),
	)
	if err != nil {
		return err
	}

	conforming := rep.Conforming()
	fmt.Printf("%s: %d of %d vertices conform (%s, %d supersteps)\n",
		rootShape, len(conforming), len(rep.Labels), rep.Status, rep.Supersteps)

	if outPath == "" {
		for _, v := range conforming {
			fmt.Println(v)
		}
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", outPath, err)
	}
	defer f.Close()
	if err := ntriples.Export(f, g, rep.Conforms); err != nil {
		return err
	}
	logger.Info("conforming subset written", zap.String("path", outPath))
	return nil
}

// loadGraph builds the in-memory graph from whichever source was given.
func loadGraph(ctx context.Context) (*graph.Graph, error) {
	switch {
	case graphPath != "" && dbPath != "":
		return nil, errors.New("use exactly one of --graph and --db")
	case graphPath != "":
		return ntriples.ImportFile(graphPath)
	case dbPath != "":
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		var opts []store.Option
		if entitiesOnly {
			opts = append(opts, store.WithEntityEdgesOnly())
		}
		return st.LoadGraph(ctx, opts...)
	default:
		return nil, errors.New("a graph source is required: --graph or --db")
	}
}

func runShapes(cmd *cobra.Command, args []string) error {
	reg, err := schema.LoadYAML(shapesPath)
	if err != nil {
		return err
	}

	for _, name := range reg.Names() {
		s, err := reg.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Println(name)
		for _, r := range s.Rules {
			fmt.Printf("  %s\n", describeRule(r))
		}
		deps, err := reg.Dependencies(name)
		if err != nil {
			return err
		}
		if len(deps) > 0 {
			fmt.Printf("  depends on: %s\n", strings.Join(deps, ", "))
		}
	}

	strata, err := reg.Strata()
	if err != nil {
		return err
	}
	fmt.Println("evaluation order:")
	for i, level := range strata {
		fmt.Printf("  stratum %d: %s\n", i, strings.Join(level, ", "))
	}
	return nil
}

func describeRule(r schema.Rule) string {
	var target string
	switch r.Kind {
	case schema.TargetShape:
		target = "shape " + r.Shape
	case schema.TargetAny:
		target = "any"
	default:
		target = "value " + r.Value.String()
	}
	return fmt.Sprintf("%s %s -> %s", r.Polarity, r.Predicate, target)
}

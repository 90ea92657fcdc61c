package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"VolPath/internal/domain/models"
	"VolPath/internal/simulation"
	"VolPath/internal/usecase"
	"VolPath/pkg/metrics"
)

var simulateFlags struct {
	open      float64
	close     float64
	max       float64
	min       float64
	hours     float64
	style     string
	diffusion float64
	paths     int
	steps     int
	seed      int64
	workers   int
	csvPath   string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate paths for one session and print statistics",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Float64Var(&simulateFlags.open, "open", 0, "session open value (required)")
	f.Float64Var(&simulateFlags.close, "close", 0, "session close value (required)")
	f.Float64Var(&simulateFlags.max, "max", 0, "daily maximum (required)")
	f.Float64Var(&simulateFlags.min, "min", 0, "daily minimum (required)")
	f.Float64Var(&simulateFlags.hours, "hours", 6.5, "session length in hours")
	f.StringVar(&simulateFlags.style, "style", "moderate", "volatility style: conservative, moderate or aggressive")
	f.Float64Var(&simulateFlags.diffusion, "diffusion", 0, "manual diffusion coefficient; 0 uses the range estimator")
	f.IntVar(&simulateFlags.paths, "paths", 20, "number of paths")
	f.IntVar(&simulateFlags.steps, "steps", 1000, "steps per path")
	f.Int64Var(&simulateFlags.seed, "seed", 42, "RNG seed")
	f.IntVar(&simulateFlags.workers, "workers", 0, "worker goroutines; 0 uses GOMAXPROCS")
	f.StringVar(&simulateFlags.csvPath, "csv", "", "write the point table to this CSV file")

	_ = simulateCmd.MarkFlagRequired("open")
	_ = simulateCmd.MarkFlagRequired("close")
	_ = simulateCmd.MarkFlagRequired("max")
	_ = simulateCmd.MarkFlagRequired("min")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	style, ok := models.ParseVolatilityStyle(simulateFlags.style)
	if !ok {
		return fmt.Errorf("unknown style %q", simulateFlags.style)
	}

	var opts []simulation.GeneratorOption
	if simulateFlags.workers > 0 {
		opts = append(opts, simulation.WithWorkers(simulateFlags.workers))
	}
	runner := usecase.NewSimulationRunner(simulation.NewGenerator(opts...), nil, nil, metrics.New())

	req := usecase.ScenarioRequest{
		Bounds: models.SessionBounds{
			OpenValue:    simulateFlags.open,
			CloseValue:   simulateFlags.close,
			DailyMax:     simulateFlags.max,
			DailyMin:     simulateFlags.min,
			SessionHours: simulateFlags.hours,
		},
		Style:  style,
		NPaths: simulateFlags.paths,
		NSteps: simulateFlags.steps,
		Seed:   simulateFlags.seed,
	}
	if simulateFlags.diffusion > 0 {
		req.ManualDiffusion = &simulateFlags.diffusion
	}

	out, err := runner.Run(context.Background(), req)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out.Estimate != nil {
		e := out.Estimate
		fmt.Fprintf(w, "diffusion %.6f = range %.6f x time %.4f x %s (%.1fx)\n",
			e.Coefficient, e.RangeRatio, e.TimeScaling, e.Style, e.Multiplier)
	} else {
		fmt.Fprintf(w, "diffusion %.6f (manual)\n", out.Diffusion)
	}

	fmt.Fprintf(w, "%-6s %10s %10s %10s %10s %12s\n", "path", "start", "end", "max", "min", "variation")
	for _, st := range out.Result.Stats {
		fmt.Fprintf(w, "%-6d %10.4f %10.4f %10.4f %10.4f %12.4f\n",
			st.PathID, st.StartValue, st.EndValue, st.PathMax, st.PathMin, st.TotalVariation)
	}

	ens := out.Ensemble
	fmt.Fprintf(w, "ensemble: global range [%.4f, %.4f], mean total variation %.4f\n",
		ens.GlobalMin, ens.GlobalMax, ens.MeanTotalVariation)

	if simulateFlags.csvPath != "" {
		if err := writeCSV(simulateFlags.csvPath, out); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(w, "wrote %s\n", simulateFlags.csvPath)
	}
	return nil
}

// writeCSV dumps the point table as one column per path plus a time column.
func writeCSV(path string, out *usecase.RunOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	nPaths := len(out.Result.Stats)
	header := make([]string, 0, nPaths+1)
	header = append(header, "time_hours")
	for _, st := range out.Result.Stats {
		header = append(header, "path_"+strconv.Itoa(st.PathID))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	values := make([][]float64, nPaths)
	for i, st := range out.Result.Stats {
		values[i] = out.Result.PathValues(st.PathID)
	}
	for j, p := range out.Ensemble.Points {
		row := make([]string, 0, nPaths+1)
		row = append(row, strconv.FormatFloat(p.Time, 'g', -1, 64))
		for i := 0; i < nPaths; i++ {
			row = append(row, strconv.FormatFloat(values[i][j], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

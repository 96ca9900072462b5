package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

var (
	genStart string
	genEnd   string
	genSeed  int64
	genOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a batch of mock predictions as an inference response",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genStart, "start", "", "start date (YYYY-MM-DD, default today)")
	generateCmd.Flags().StringVar(&genEnd, "end", "", "end date (YYYY-MM-DD, default start+7)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "generator seed, 0 for generator_seed from config")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	r := models.DefaultDateRange(time.Now())
	if genStart != "" {
		start, err := time.Parse(models.DateLayout, genStart)
		if err != nil {
			return fmt.Errorf("%w: start date %q", models.ErrInvalidDateRange, genStart)
		}
		r = models.DefaultDateRange(start)
	}
	if genEnd != "" {
		r.EndDate = genEnd
	}
	if err := r.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seed := genSeed
	if seed == 0 {
		seed = cfg.GeneratorSeed
	}
	gen := services.NewGenerator(seed, nil)
	resp := models.InferenceResponse{
		Predictions:  gen.Generate(r),
		Timestamp:    time.Now().UTC(),
		ModelVersion: cfg.ModelVersion,
	}

	out := cmd.OutOrStdout()
	if genOut != "" {
		f, err := os.Create(genOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode predictions: %w", err)
	}
	return nil
}

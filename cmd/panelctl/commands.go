package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wall-panel-server/modules/common/logger"
	"wall-panel-server/modules/common/utils"
	"wall-panel-server/modules/composite"
	"wall-panel-server/modules/design"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "panelctl",
		Short:        "Plan and render acoustic panel layouts offline",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := "production"
			if verbose {
				env = "development"
			}
			logger.Setup(env)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSetsCmd())
	root.AddCommand(newSelectCmd())
	root.AddCommand(newRenderCmd())
	return root
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the panel catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSets(cmd.OutOrStdout(), panel.DefaultCatalog())
			return nil
		},
	}
}

func printSets(w io.Writer, catalog *panel.Catalog) {
	for _, set := range catalog.Sets() {
		fmt.Fprintf(w, "Set %d %q: %d panels, min wall width %.1f ft, wall height >= %.1f ft\n",
			set.ID, set.Name, set.TotalPanelCount, set.MinWallWidthFt, set.MaxPanelHeightFt+panel.MountingClearanceFt)
		for _, spec := range set.Specs {
			fmt.Fprintf(w, "  %gx%g ft x%d\n", spec.WidthFt, spec.HeightFt, spec.Quantity)
		}
	}
}

func newSelectCmd() *cobra.Command {
	var widthFt, heightFt float64

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Print the panel set chosen for a wall size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := panel.DefaultCatalog().SelectBestPanelSet(widthFt, heightFt)
			fmt.Fprintln(cmd.OutOrStdout(), int(id))
			return nil
		},
	}
	cmd.Flags().Float64Var(&widthFt, "width-ft", wallanalysis.DefaultWallWidthFt, "wall width in feet")
	cmd.Flags().Float64Var(&heightFt, "height-ft", wallanalysis.DefaultWallHeightFt, "wall height in feet")
	return cmd
}

type renderOptions struct {
	image    string
	out      string
	strategy string
	widthFt  float64
	heightFt float64
	bounds   string
	analysis string
	lighting string
	quality  float32
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite a panel layout onto a local wall photo",
		Long: `Composite a panel layout onto a local wall photo.

The wall estimate comes from --analysis (a saved vision response, parsed with
the same rules as the server) or from --width-ft/--height-ft/--bounds.
The output format follows the --out extension (.png or .webp).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "input wall photo (png, jpeg or webp)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default: <image>.panels.png)")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", string(panel.StrategyStandard), "standard, staggered, asymmetric or mixed")
	cmd.Flags().Float64Var(&opts.widthFt, "width-ft", wallanalysis.DefaultWallWidthFt, "wall width in feet")
	cmd.Flags().Float64Var(&opts.heightFt, "height-ft", wallanalysis.DefaultWallHeightFt, "wall height in feet")
	cmd.Flags().StringVar(&opts.bounds, "bounds", "15,15,70,70", "wall bounds as x,y,width,height percentages")
	cmd.Flags().StringVar(&opts.analysis, "analysis", "", "raw vision response file; overrides size and bounds flags")
	cmd.Flags().StringVar(&opts.lighting, "lighting", "", "light direction override")
	cmd.Flags().Float32Var(&opts.quality, "quality", 90, "webp quality")
	cmd.MarkFlagRequired("image")
	return cmd
}

func runRender(ctx context.Context, opts renderOptions) error {
	strategy, err := panel.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	est, err := loadEstimate(opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.image)
	if err != nil {
		return fmt.Errorf("read image %s: %w", opts.image, err)
	}
	base, _, err := utils.DecodeImage(data)
	if err != nil {
		return err
	}

	renderer := design.NewRenderer(panel.DefaultCatalog(), panel.DefaultLayoutConfig(), composite.DefaultStyle())
	b := base.Bounds()
	plan, err := renderer.Plan(est, b.Dx(), b.Dy(), strategy)
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, base, plan)
	if err != nil {
		return err
	}

	encoded, err := utils.EncodePNG(out)
	if err != nil {
		return err
	}
	output := opts.out
	if output == "" {
		output = strings.TrimSuffix(opts.image, filepath.Ext(opts.image)) + ".panels.png"
	}
	if strings.EqualFold(filepath.Ext(output), ".webp") {
		if encoded, err = utils.ConvertPNGToWebP(encoded, opts.quality); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	log.Info().
		Int("set_id", int(plan.SetID)).
		Str("strategy", string(strategy)).
		Int("panels", len(plan.Rects)).
		Str("out", output).
		Msg("✅ Rendered")
	return nil
}

// loadEstimate builds the wall estimate from a saved analysis or flags.
// Flag values go through the same parser so they are clamped identically.
func loadEstimate(opts renderOptions) (wallanalysis.WallEstimate, error) {
	var est wallanalysis.WallEstimate
	if opts.analysis != "" {
		raw, err := os.ReadFile(opts.analysis)
		if err != nil {
			return est, fmt.Errorf("read analysis %s: %w", opts.analysis, err)
		}
		est = wallanalysis.ParseWallAnalysis(string(raw))
	} else {
		bounds, err := parseBounds(opts.bounds)
		if err != nil {
			return est, err
		}
		raw := fmt.Sprintf(`{"wallBounds":{"x":%g,"y":%g,"width":%g,"height":%g},"wallWidthFt":%g,"wallHeightFt":%g,"lightingDirection":%q}`,
			bounds.X, bounds.Y, bounds.Width, bounds.Height, opts.widthFt, opts.heightFt, opts.lighting)
		est = wallanalysis.ParseWallAnalysis(raw)
	}

	if opts.lighting != "" {
		est.Lighting = wallanalysis.ParseLighting(opts.lighting)
	}
	return est, nil
}

func parseBounds(s string) (wallanalysis.WallBounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return wallanalysis.WallBounds{}, fmt.Errorf("bounds must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return wallanalysis.WallBounds{}, fmt.Errorf("bounds value %q: %w", p, err)
		}
		v[i] = f
	}
	return wallanalysis.WallBounds{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"unicode"

	"github.com/Carmen-Shannon/oxy-map/config"
	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/Carmen-Shannon/oxy-map/engine/crs"
	"github.com/Carmen-Shannon/oxy-map/engine/layer"
	"github.com/Carmen-Shannon/oxy-map/engine/renderer"
	"github.com/Carmen-Shannon/oxy-map/engine/symbolizer"
	"github.com/Carmen-Shannon/oxy-map/engine/view"
	"github.com/Carmen-Shannon/oxy-map/logging"
	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

// NewCmd builds the tiltmap command tree.
func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "tiltmap [command] [flags]",
		Short:         "tiltmap draws GeoJSON points on a tilted, rotated map view",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "`<File>` YAML view settings")
	rootCmd.PersistentFlags().Float64("width", 0, "viewport width in pixels")
	rootCmd.PersistentFlags().Float64("height", 0, "viewport height in pixels")
	rootCmd.PersistentFlags().Float64("fov", 0, "field of view in degrees")
	rootCmd.PersistentFlags().Float64("pitch", 0, "tilt in degrees, 0-60")
	rootCmd.PersistentFlags().Float64("bearing", 0, "rotation in degrees")
	rootCmd.PersistentFlags().Float64("zoom", 0, "zoom level")
	rootCmd.PersistentFlags().Float64Slice("center", nil, "view center as lon,lat")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	renderCmd := &cobra.Command{
		Use:   "render [flags] <file.geojson>",
		Short: "Render a GeoJSON file to PNG, or interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  doRender,
	}
	renderCmd.Flags().StringP("out", "o", "map.png", "`<File>` PNG output path")
	renderCmd.Flags().Bool("terminal", false, "draw in the terminal instead of a PNG")
	renderCmd.Flags().String("placement", string(symbolizer.PlacementVertex), "marker placement: point, vertex, vertex-first, vertex-last, line")
	renderCmd.Flags().Float64("marker-size", 6, "marker size in pixels")
	renderCmd.Flags().Float64("rotation", 0, "base marker rotation in degrees")
	renderCmd.Flags().Bool("profile", false, "log render timings when done")

	matrixCmd := &cobra.Command{
		Use:   "matrix [flags]",
		Short: "Print the camera matrix as a CSS matrix3d transform",
		Args:  cobra.NoArgs,
		RunE:  doMatrix,
	}

	configCmd := &cobra.Command{
		Use:   "config [flags] <file.yaml>",
		Short: "Write the effective settings to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  doConfig,
	}

	rootCmd.AddCommand(
		renderCmd,
		matrixCmd,
		configCmd,
	)
	return rootCmd
}

// loadConfig reads --config and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command) (config.ViewConfig, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	floats := map[string]*float64{
		"width":   &cfg.Viewport.Width,
		"height":  &cfg.Viewport.Height,
		"fov":     &cfg.Camera.Fov,
		"pitch":   &cfg.Camera.Pitch,
		"bearing": &cfg.Camera.Bearing,
		"zoom":    &cfg.Camera.Zoom,
	}
	for name, dst := range floats {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
	if flags.Changed("center") {
		center, _ := flags.GetFloat64Slice("center")
		if len(center) != 2 {
			return cfg, errors.Errorf("--center needs lon,lat, got %v", center)
		}
		cfg.Camera.Center = [2]float64{center[0], center[1]}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("terminal") {
		if t, _ := flags.GetBool("terminal"); t {
			cfg.Renderer.Backend = renderer.BackendTypeTerminal.String()
		}
	}
	return cfg, cfg.Validate()
}

func doMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	v, err := view.NewView(cfg.ViewOptions()...)
	if err != nil {
		return err
	}
	m, ok := v.CameraMatrix()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "none")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), camera.CSSMatrix(m))
	return nil
}

func doConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return cfg.Save(args[0])
}

func doRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	placement, _ := cmd.Flags().GetString("placement")
	size, _ := cmd.Flags().GetFloat64("marker-size")
	rotation, _ := cmd.Flags().GetFloat64("rotation")
	style := symbolizer.Style{
		Placement: symbolizer.Placement(placement),
		Rotation:  rotation,
		Width:     size,
		Height:    size,
	}

	sr := crs.NewSpatialReference()
	syms, err := loadSymbolizers(args[0], sr, style)
	if err != nil {
		return err
	}
	logger.Info("features loaded", zap.String("file", args[0]), zap.Int("count", len(syms)))

	preparer := symbolizer.NewPreparer(
		symbolizer.WithWorkers(cfg.Workers),
		symbolizer.WithExtentCache(symbolizer.NewExtentCache(symbolizer.DefaultExtentTTL, symbolizer.DefaultExtentCapacity)),
		symbolizer.WithLogger(logger.Named("preparer")),
	)
	points := layer.NewVectorLayer("features",
		layer.WithSymbolizers(syms...),
		layer.WithPreparer(preparer),
		layer.WithLogger(logger.Named("layer")),
	)

	if cfg.BackendType() == renderer.BackendTypeTerminal {
		return runTerminal(cfg, sr, points, logger)
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeRaster,
		renderer.WithSize(int(cfg.Viewport.Width), int(cfg.Viewport.Height)),
		renderer.WithLineWidth(cfg.Renderer.LineWidth),
		renderer.WithLogger(logger.Named("renderer")),
	)
	if err != nil {
		return err
	}
	opts := append(cfg.ViewOptions(),
		view.WithSpatialReference(sr),
		view.WithRenderer(r),
		view.WithBaseLayer(points),
		view.WithLogger(logger),
	)
	v, err := view.NewView(opts...)
	if err != nil {
		return err
	}
	if err := v.Render(); err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := r.SavePNG(out); err != nil {
		return err
	}
	stats := points.Stats()
	logger.Info("map written",
		zap.String("out", out),
		zap.Int("drawn", stats.Drawn),
		zap.Int("culled", stats.CulledViewport+stats.CulledFrustum),
	)
	if profile, _ := cmd.Flags().GetBool("profile"); profile {
		v.Profiler().Report()
	}
	return nil
}

func loadSymbolizers(path string, sr *crs.SpatialReference, style symbolizer.Style) ([]*symbolizer.PointSymbolizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	zoom := sr.MaxZoom()
	syms := make([]*symbolizer.PointSymbolizer, 0, len(fc.Features))
	for i, f := range fc.Features {
		feat, err := symbolizer.FromGeoJSON(f, sr, zoom)
		if err != nil {
			if errors.Is(err, symbolizer.ErrUnsupportedGeometry) {
				continue
			}
			return nil, err
		}
		if feat.ID == "" {
			feat.ID = fmt.Sprintf("%s#%d", path, i)
		}
		syms = append(syms, symbolizer.NewPointSymbolizer(feat, style))
	}
	return syms, nil
}

// runTerminal draws into the terminal until Escape or Ctrl-C.
// Arrow keys pan, +/- zoom, and the camera keys (Q/E rotate, W/S tilt, 0 reset) report why
// a character grid cannot follow them.
func runTerminal(cfg config.ViewConfig, sr *crs.SpatialReference, points layer.Layer, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer screen.Fini()

	r, err := renderer.NewRenderer(renderer.BackendTypeTerminal, renderer.WithScreen(screen), renderer.WithLogger(logger.Named("renderer")))
	if err != nil {
		return err
	}
	size := r.Size()
	cfg.Camera.Pitch, cfg.Camera.Bearing = 0, 0
	opts := append(cfg.ViewOptions(),
		view.WithSize(size.Width, size.Height),
		view.WithSpatialReference(sr),
		view.WithRenderer(r),
		view.WithBaseLayer(points),
		view.WithLogger(logger),
	)
	v, err := view.NewView(opts...)
	if err != nil {
		return err
	}
	controller := camera.NewCameraController(camera.WithTarget(v))

	status := func(msg string) {
		for i, ch := range msg {
			screen.SetContent(i, 0, ch, nil, tcell.StyleDefault.Reverse(true))
		}
		screen.Show()
	}
	if err := v.Render(); err != nil {
		status(err.Error())
	}

	const panStep = 40.0
	for {
		ev := screen.PollEvent()
		var err error
		switch ev := ev.(type) {
		case *tcell.EventResize:
			size := r.Size()
			err = v.Resize(size.Width, size.Height)
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyUp:
				err = pan(v, 0, -panStep)
			case tcell.KeyDown:
				err = pan(v, 0, panStep)
			case tcell.KeyLeft:
				err = pan(v, -panStep, 0)
			case tcell.KeyRight:
				err = pan(v, panStep, 0)
			case tcell.KeyRune:
				switch ev.Rune() {
				case '+', '=':
					err = v.SetZoom(v.Zoom() + 1)
				case '-':
					err = v.SetZoom(v.Zoom() - 1)
				default:
					_, err = controller.HandleKey(int(unicode.ToUpper(ev.Rune())))
				}
			}
		}
		if err != nil {
			logger.Debug("terminal input rejected", zap.Error(err))
			status(err.Error())
		}
	}
}

// pan moves the view center by a container pixel offset.
func pan(v view.View, dx, dy float64) error {
	half := v.Size().Half()
	return v.SetCenter(v.ContainerPointToLonLat(orb.Point{half.X() + dx, half.Y() + dy}))
}

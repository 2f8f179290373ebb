// lensmap generates distortion ST maps and bokeh kernel images from a lens
// data JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/edaniels/golog"
	viamutils "go.viam.com/utils"

	"github.com/cinelens/lenskit/bokeh"
	"github.com/cinelens/lenskit/lens"
	"github.com/cinelens/lenskit/stmap"
)

var logger = golog.NewDevelopmentLogger("lensmap")

func main() {
	err := realMain(os.Args[1:])
	if err != nil {
		logger.Fatal(err)
	}
}

func realMain(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("need to specify a command (stmap or bokeh)")
	}

	cmd := args[0]

	switch cmd {
	case "stmap":
		return stmapCmd(args[1:])
	case "bokeh":
		return bokehCmd(args[1:])
	default:
		return fmt.Errorf("unknown command: [%s]", cmd)
	}
}

func loadSpec(path string) (*lens.Spec, error) {
	spec, err := lens.NewSpecFromJSONFile(path)
	if err != nil {
		return nil, err
	}
	if err := spec.CheckValid(); err != nil {
		return nil, err
	}
	return spec, nil
}

func stmapCmd(args []string) error {
	flags := flag.NewFlagSet("stmap", flag.ContinueOnError)
	mode := flags.String("mode", string(stmap.ModeUndistort), "undistort or redistort")
	width := flags.Int("width", 1920, "map width in pixels")
	height := flags.Int("height", 1080, "map height in pixels")
	focus := flags.Float64("focus", 0, "focus distance in meters; 0 uses the nominal squeeze")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return fmt.Errorf("stmap needs <lens json in> <png out>")
	}

	spec, err := loadSpec(flags.Arg(0))
	if err != nil {
		return err
	}

	squeeze := spec.SqueezeRatio
	if *focus > 0 {
		squeeze = spec.SqueezeCurve().Evaluate(*focus)
	}
	logger.Infow("generating ST map",
		"lens", spec.LensID, "mode", *mode, "width", *width, "height", *height, "squeeze", squeeze)

	d, err := stmap.NewDistorterForMode(stmap.Mode(*mode), spec.Distortion, squeeze)
	if err != nil {
		return err
	}
	m, err := stmap.GenerateMap(context.Background(), d, *width, *height)
	if err != nil {
		return err
	}
	return m.WriteToFile(flags.Arg(1))
}

func bokehCmd(args []string) error {
	flags := flag.NewFlagSet("bokeh", flag.ContinueOnError)
	size := flags.Int("size", 512, "kernel size in pixels")
	rotation := flags.Float64("rotation", 0, "iris rotation in degrees")
	focus := flags.Float64("focus", 0, "focus distance in meters; 0 uses the nominal squeeze")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return fmt.Errorf("bokeh needs <lens json in> <png out>")
	}

	spec, err := loadSpec(flags.Arg(0))
	if err != nil {
		return err
	}

	squeeze := spec.SqueezeRatio
	if *focus > 0 {
		squeeze = spec.SqueezeCurve().Evaluate(*focus)
	}
	logger.Infow("generating bokeh kernel",
		"lens", spec.LensID, "blades", spec.IrisBlades, "size", *size, "squeeze", squeeze)

	kernel, err := bokeh.RenderKernel(*size, bokeh.KernelParams{
		Blades:      spec.IrisBlades,
		Squeeze:     squeeze,
		RotationDeg: *rotation,
	})
	if err != nil {
		return err
	}

	//nolint:gosec
	f, err := os.Create(flags.Arg(1))
	if err != nil {
		return err
	}
	defer viamutils.UncheckedErrorFunc(f.Close)
	return png.Encode(f, bokeh.ToImage(kernel))
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/vbcrop/internal/config"
	"github.com/menta2k/vbcrop/internal/utils"
	"github.com/menta2k/vbcrop/pkg/analyzer"
	"github.com/menta2k/vbcrop/pkg/cropper"
	"github.com/menta2k/vbcrop/pkg/processing"
	"github.com/menta2k/vbcrop/pkg/pyramid"
	"github.com/menta2k/vbcrop/pkg/types"
)

// report is written next to the crop
type report struct {
	Input     string               `json:"input"`
	Output    string               `json:"output"`
	Info      types.ImageInfo      `json:"info"`
	Intensity types.IntensityStats `json:"intensity"`
	Center    image.Point          `json:"center"`
	Dim       int                  `json:"dim"`
	Region    image.Rectangle      `json:"region"`
}

func main() {
	var in, outDir, cfgPath, ext string
	var cx, cy, dim, quality int
	var lossless bool
	var showInfo, showPyramid, preview bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png)")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&cfgPath, "config", "", "config file (json or yaml), default "+config.DefaultPath())

	flag.IntVar(&cx, "cx", -1, "crop center column in source pixels")
	flag.IntVar(&cy, "cy", -1, "crop center row in source pixels")
	flag.IntVar(&dim, "dim", 0, "crop side length in source pixels (default from config)")

	flag.StringVar(&ext, "ext", "", "output format for crops: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality for crops (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode for crops")

	flag.BoolVar(&showInfo, "info", false, "print image information and exit")
	flag.BoolVar(&showPyramid, "pyramid", false, "print pyramid level sizes and exit")
	flag.BoolVar(&preview, "preview", false, "also write the source with the crop box drawn")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.png [-info] [-pyramid] [-cx X -cy Y] [-dim 384] [-out outdir] [-ext jpg|png|webp] [-preview]", filepath.Base(os.Args[0]))
	}

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if outDir != "" {
		cfg.Output.OutputDir = outDir
	}
	if ext != "" {
		cfg.Output.Format = strings.ToLower(ext)
	}
	if quality > 0 {
		cfg.Output.Quality = quality
	}
	if lossless {
		cfg.Output.Lossless = true
	}
	if dim > 0 {
		cfg.Crop.Start = dim
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	processor := processing.NewProcessorWithFormats(cfg.Input.SupportedFormats)
	imgAnalyzer := analyzer.New()

	img, err := processor.LoadFirstChannel(in)
	if err != nil {
		log.Fatal(err)
	}
	if err := imgAnalyzer.ValidateImage(img); err != nil {
		log.Fatal(err)
	}
	log.Printf("Opened %s", in)

	info := imgAnalyzer.GetImageInfo(img)
	stats := imgAnalyzer.Intensity(img)

	if showInfo {
		fmt.Printf("Image name:  %s\n", utils.BaseName(in))
		fmt.Printf("Dimensions:  %s\n", analyzer.FormatDimensions(info.Width, info.Height))
		fmt.Printf("Aspect:      %.3f\n", info.AspectRatio)
		fmt.Printf("Intensity:   %s\n", analyzer.FormatIntensity(stats))
		if fi, err := os.Stat(in); err == nil {
			fmt.Printf("File size:   %s\n", utils.FormatFileSize(fi.Size()))
		}
		return
	}

	if showPyramid {
		opts := cfg.ViewportOptions().Pyramid
		for i, sz := range pyramid.LevelSizes(info.Width, info.Height, opts) {
			fmt.Printf("level %d: %s\n", i, analyzer.FormatDimensions(sz.X, sz.Y))
		}
		return
	}

	// Default to the image center
	if cx < 0 {
		cx = info.Width / 2
	}
	if cy < 0 {
		cy = info.Height / 2
	}
	center := image.Pt(cx, cy)

	box := cropper.NewBox(cfg.Crop)
	result, err := cropper.Slice(img, center, box.Dim)
	if err != nil {
		log.Fatalf("crop failed: %v", err)
	}

	if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
		log.Fatal(err)
	}
	name := utils.SuggestName(in, cfg.Output.NameMarker, cfg.Output.NameSuffix)
	cropPath := filepath.Join(cfg.Output.OutputDir, processing.EnsureExtension(name, cfg.Output.Format))
	if err := processor.SaveImage(result.Image, cropPath, cfg.OutputOptions()); err != nil {
		log.Fatalf("save %s failed: %v", cropPath, err)
	}
	log.Printf("wrote %s (%s at %d,%d)", cropPath, analyzer.FormatDimensions(result.Image.Bounds().Dx(), result.Image.Bounds().Dy()), cx, cy)

	if preview {
		overlay := processing.BoxOverlay(img, processing.Box{
			Rect:   cropper.Bounds(center, box.Dim),
			Color:  processing.Firebrick,
			Stroke: 2,
		})
		previewPath := filepath.Join(cfg.Output.OutputDir, name+"preview.png")
		if err := processor.SaveImage(overlay, previewPath, types.OutputOptions{Format: "png"}); err != nil {
			log.Printf("preview save failed: %v", err)
		} else {
			log.Printf("wrote %s", previewPath)
		}
	}

	// Save crop report
	js, _ := json.MarshalIndent(report{
		Input:     in,
		Output:    cropPath,
		Info:      info,
		Intensity: stats,
		Center:    center,
		Dim:       box.Dim,
		Region:    result.Region,
	}, "", "  ")
	_ = os.WriteFile(filepath.Join(cfg.Output.OutputDir, name+"crop.json"), js, 0o644)
}

// Package main is the entry point for the point-cloud viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/config"
	"github.com/Faultbox/pcviz/internal/logger"
	"github.com/Faultbox/pcviz/internal/viewer"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Files) == 0 {
		printUsage()
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Pointcloud Visualizer ===", zap.Strings("files", cfg.Files))
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `pcviz - render point clouds as triangle meshes

Usage:
  pcviz [flags] <file>...

Files:
  *.png *.jpg *.gif *.bmp *.tif *.tga   depth image, one sample per pixel
  *.pcd                                 PCD ascii, one row per line
  anything else                         comma separated x,y,z values

Controls:
  W A S D    move        mouse   look
  wheel      zoom        HOME    reset camera
  END        screenshot  F1      wireframe
  B          bounds      ESC     quit

Flags:`)
	flag.PrintDefaults()
}

package cmd

import (
	"fmt"

	"github.com/madmaxpython/DeepOF-SIT/internal/config"
	"github.com/madmaxpython/DeepOF-SIT/internal/coords"
	"github.com/madmaxpython/DeepOF-SIT/internal/experiment"
	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
	"github.com/madmaxpython/DeepOF-SIT/internal/project"
	"github.com/spf13/cobra"
)

// inputPaths are the file locations shared by run and validate
type inputPaths struct {
	project    string
	conditions string
	arena      string
	siz        string
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Project directory containing Tables/*.csv")
	cmd.Flags().String("conditions", "", "Experiment conditions CSV (first column is the recording id)")
	cmd.Flags().String("arena", "", "Arena corner file, one quadrilateral per line")
	cmd.Flags().String("siz", "", "SIZ corner file, one shared quadrilateral or a list")
	cmd.Flags().String("config", "", "Path to config file (default: .sit/config.yaml)")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("arena")
	cmd.MarkFlagRequired("siz")
}

func readInputPaths(cmd *cobra.Command) inputPaths {
	var p inputPaths
	p.project, _ = cmd.Flags().GetString("project")
	p.conditions, _ = cmd.Flags().GetString("conditions")
	p.arena, _ = cmd.Flags().GetString("arena")
	p.siz, _ = cmd.Flags().GetString("siz")
	return p
}

// loadConfig loads the config named by --config, or the default one
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := config.LoadConfig(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// inputs holds everything the analysis needs, parsed and matched
type inputs struct {
	project  *project.Project
	arenaSet coords.ParamSet
	sizSet   coords.ParamSet
	arena    map[string]geometry.Quad
	siz      map[string]geometry.Quad
}

func loadInputs(paths inputPaths, cfg *config.Config) (*inputs, error) {
	proj, err := project.Load(paths.project, paths.conditions, cfg.Naming.VideoMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	arenaSet, err := coords.ReadTuplesFile(paths.arena, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read arena coordinates: %w", err)
	}
	sizSet, err := coords.ReadTuplesFile(paths.siz, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read SIZ coordinates: %w", err)
	}

	arena, siz := coords.MatchParamsToVideos(proj.Videos(), arenaSet, sizSet, cfg.Naming.VideoMarker)

	return &inputs{
		project:  proj,
		arenaSet: arenaSet,
		sizSet:   sizSet,
		arena:    arena,
		siz:      siz,
	}, nil
}

// experimentOptions maps configuration onto analysis options
func experimentOptions(cfg *config.Config, proj *project.Project) experiment.Options {
	opts := experiment.DefaultOptions()
	opts.FPS = cfg.FPS
	opts.PixelSize = cfg.PixelSize
	opts.CenterLandmark = cfg.Landmarks.Center
	opts.NoseLandmark = cfg.Landmarks.Nose
	opts.NameParser = experiment.MarkerNameParser(cfg.Naming.SessionMarker, cfg.Naming.SessionSeparator)
	opts.Sessions = experiment.Sessions{Baseline: cfg.Sessions.Baseline, Test: cfg.Sessions.Test}
	opts.IncludeRawDistance = cfg.Output.IncludeRawDistance
	opts.IncludeConditions = cfg.Output.IncludeConditions
	if proj != nil {
		opts.ConditionColumns = proj.ConditionColumns()
	}
	return opts
}

// Package experiment drives the SIT analysis across a tracking project.
//
// Each recording is resolved to its arena and zone geometry, analyzed with a
// zone.Analyzer, and merged into one record per animal. Once every recording
// has been processed the records are turned into a ResultTable carrying the
// Social Interaction Ratios (SIR) that compare the two sessions of an animal.
//
// Failure semantics:
//   - a recording without arena or zone geometry is skipped, not an error;
//   - a trajectory that is not two columns wide is a hard error;
//   - a session recorded twice is logged and the later result wins;
//   - ratios never fail: degenerate operands yield NaN.
package experiment

import (
	"fmt"

	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
	"github.com/madmaxpython/DeepOF-SIT/internal/project"
	"github.com/madmaxpython/DeepOF-SIT/internal/trajectory"
	"github.com/madmaxpython/DeepOF-SIT/internal/zone"
)

// Default landmark names.
const (
	DefaultCenterLandmark = "Center"
	DefaultNoseLandmark   = "Nose"
)

// Logger receives orchestration messages.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
}

// ProgressLogger is implemented by loggers that can render batch progress.
type ProgressLogger interface {
	LogProgress(done, total int)
}

// Options configures an Experiment.
type Options struct {
	// FPS is the video frame rate; non-positive values fall back to zone.DefaultFPS.
	FPS float64
	// PixelSize is the physical size of one pixel.
	PixelSize float64
	// CenterLandmark drives time in zone and distance travelled.
	CenterLandmark string
	// NoseLandmark drives the distance to the POI.
	NoseLandmark string
	// NameParser splits recording ids; nil means DefaultNameParser.
	NameParser NameParser
	// Sessions names the compared sessions.
	Sessions Sessions
	// Logger receives progress messages; nil discards them.
	Logger Logger

	IncludeRawDistance bool
	IncludeConditions  bool
	ConditionColumns   []string
}

// DefaultOptions returns the options used by the command line defaults.
func DefaultOptions() Options {
	return Options{
		FPS:            zone.DefaultFPS,
		PixelSize:      1.0,
		CenterLandmark: DefaultCenterLandmark,
		NoseLandmark:   DefaultNoseLandmark,
		NameParser:     DefaultNameParser,
		Sessions:       DefaultSessions(),
	}
}

// Experiment runs the analysis over every recording of a Source.
type Experiment struct {
	src   project.Source
	arena map[string]geometry.Quad
	siz   map[string]geometry.Quad
	opts  Options
}

// New creates an Experiment. arena and siz map recording ids to geometry.
func New(src project.Source, arena, siz map[string]geometry.Quad, opts Options) *Experiment {
	defaults := DefaultOptions()
	if opts.NameParser == nil {
		opts.NameParser = defaults.NameParser
	}
	if opts.CenterLandmark == "" {
		opts.CenterLandmark = defaults.CenterLandmark
	}
	if opts.NoseLandmark == "" {
		opts.NoseLandmark = defaults.NoseLandmark
	}
	if opts.Sessions == (Sessions{}) {
		opts.Sessions = defaults.Sessions
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}

	return &Experiment{src: src, arena: arena, siz: siz, opts: opts}
}

// HasGeometry reports whether both arena and zone geometry are registered for a recording.
func (e *Experiment) HasGeometry(recording string) bool {
	_, okArena := e.arena[recording]
	_, okSIZ := e.siz[recording]
	return okArena && okSIZ
}

// AnalyzeOne computes the session metrics of one recording.
// It returns nil without error when the recording has no geometry.
func (e *Experiment) AnalyzeOne(recording string) (*SessionResult, error) {
	animalID, session := e.opts.NameParser(recording)

	arena, okArena := e.arena[recording]
	siz, okSIZ := e.siz[recording]
	if !okArena || !okSIZ {
		return nil, nil
	}

	center, err := project.Trajectory(e.src, recording, e.opts.CenterLandmark)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s trajectory: %w", e.opts.CenterLandmark, err)
	}
	nose, err := project.Trajectory(e.src, recording, e.opts.NoseLandmark)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s trajectory: %w", e.opts.NoseLandmark, err)
	}
	center = trajectory.Interpolate(center)
	nose = trajectory.Interpolate(nose)

	a := zone.New(arena, siz, e.opts.FPS)

	timeInZone, err := a.TimeInZone(center)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", recording, err)
	}
	distances, normalized, err := a.DistanceToPOI(nose)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", recording, err)
	}
	total, err := a.TotalDistanceTraveled(center, e.opts.PixelSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", recording, err)
	}

	res := &SessionResult{
		Recording: recording,
		AnimalID:  animalID,
		Session:   session,
		Metrics: SessionMetrics{
			TimeInZone:              timeInZone,
			NormalizedDistanceToPOI: zone.FiniteMean(normalized),
			DistanceToPOI:           zone.FiniteMean(distances),
			TotalDistanceTraveled:   total,
		},
	}
	if c, ok := e.src.Conditions(recording); ok {
		res.Conditions = c
	}
	return res, nil
}

// RunAll analyzes every recording and builds the result table.
func (e *Experiment) RunAll() (*ResultTable, error) {
	log := e.opts.Logger
	progress, _ := log.(ProgressLogger)

	recordings := e.src.Recordings()
	acc := NewAccumulator()

	var analyzed int
	var skipped, overwritten []string

	for i, recording := range recordings {
		res, err := e.AnalyzeOne(recording)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			progress.LogProgress(i+1, len(recordings))
		}
		if res == nil {
			log.LogDebug(fmt.Sprintf("No arena or SIZ geometry for %s, skipping", recording))
			skipped = append(skipped, recording)
			continue
		}
		analyzed++

		switch acc.Merge(*res) {
		case MergeCreated:
			log.LogDebug(fmt.Sprintf("%s: session %s analyzed", res.AnimalID, res.Session))
		case MergeUpdated:
			log.LogInfo(fmt.Sprintf("%s already analyzed, updating metrics", res.AnimalID))
		case MergeOverwritten:
			log.LogWarn(fmt.Sprintf("%s session %s analyzed twice, keeping %s", res.AnimalID, res.Session, recording))
			overwritten = append(overwritten, recording)
		}
	}

	table := BuildTable(acc.Records(), TableOptions{
		Sessions:           e.opts.Sessions,
		IncludeRawDistance: e.opts.IncludeRawDistance,
		IncludeConditions:  e.opts.IncludeConditions,
		ConditionColumns:   e.opts.ConditionColumns,
	})
	table.Analyzed = analyzed
	table.Skipped = skipped
	table.Overwritten = overwritten

	log.LogInfo(fmt.Sprintf("Analyzed %d of %d recordings for %d animals", analyzed, len(recordings), table.Len()))
	return table, nil
}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}

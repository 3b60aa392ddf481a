package experiment

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
	"github.com/madmaxpython/DeepOF-SIT/internal/project"
	"github.com/madmaxpython/DeepOF-SIT/internal/trajectory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	debug, info, warn []string
	progress          [][2]int
}

func (l *recordingLogger) LogDebug(m string) { l.debug = append(l.debug, m) }
func (l *recordingLogger) LogInfo(m string)  { l.info = append(l.info, m) }
func (l *recordingLogger) LogWarn(m string)  { l.warn = append(l.warn, m) }
func (l *recordingLogger) LogProgress(done, total int) {
	l.progress = append(l.progress, [2]int{done, total})
}

func mustQuad(t *testing.T, v [][]float64) geometry.Quad {
	t.Helper()
	q, err := geometry.NewQuad(v)
	require.NoError(t, err)
	return q
}

func constant(x, y float64, n int) trajectory.Trajectory {
	tr := make(trajectory.Trajectory, n)
	for i := range tr {
		tr[i] = []float64{x, y}
	}
	return tr
}

type fixture struct {
	src   *project.Memory
	arena map[string]geometry.Quad
	siz   map[string]geometry.Quad
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		src:   project.NewMemory(),
		arena: make(map[string]geometry.Quad),
		siz:   make(map[string]geometry.Quad),
	}
}

// add registers a recording in a 10x10 arena whose SIZ is the top-left 5x5 square.
// The center stays at (1,1) for inside frames and (8,8) afterwards.
func (f *fixture) add(t *testing.T, recording string, inside, outside int, nose [2]float64) {
	center := append(constant(1, 1, inside), constant(8, 8, outside)...)
	f.src.AddTrajectory(recording, DefaultCenterLandmark, center)
	f.src.AddTrajectory(recording, DefaultNoseLandmark, constant(nose[0], nose[1], inside+outside))
	f.arena[recording] = mustQuad(t, [][]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}})
	f.siz[recording] = mustQuad(t, [][]float64{{0, 0}, {0, 5}, {5, 5}, {5, 0}})
}

func testOptions(log Logger) Options {
	opts := DefaultOptions()
	opts.FPS = 10
	opts.Logger = log
	return opts
}

func TestRunAllTwoSessions(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 50, 10, [2]float64{5, 3})
	f.add(t, "Mouse1_SIT.2", 150, 10, [2]float64{8, 4})

	log := &recordingLogger{}
	table, err := New(f.src, f.arena, f.siz, testOptions(log)).RunAll()
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 2, table.Analyzed)
	assert.Empty(t, table.Skipped)
	assert.Empty(t, table.Overwritten)

	v := func(col string) float64 {
		got, ok := table.Value("Mouse1", col)
		require.True(t, ok, col)
		return got
	}
	assert.InDelta(t, 5.0, v(TimeInZoneColumn("1")), 1e-9)
	assert.InDelta(t, 15.0, v(TimeInZoneColumn("2")), 1e-9)
	assert.InDelta(t, 3.0, v(ColumnTimeSIRTypeA), 1e-9)
	assert.InDelta(t, 0.75, v(ColumnTimeSIRTypeB), 1e-9)

	// POI (5,0): nose distances 3 and 5; the normalization cancels in typeA.
	assert.InDelta(t, 5.0/3.0, v(ColumnDistanceSIRTypeA), 1e-9)
	assert.InDelta(t, 5.0/8.0, v(ColumnDistanceSIRTypeB), 1e-9)

	// (8,8) to (8,8) between outside frames is zero; one jump from (1,1).
	assert.InDelta(t, math.Hypot(7, 7), v(TotalDistanceColumn("1")), 1e-9)

	assert.Contains(t, log.info, "Mouse1 already analyzed, updating metrics")
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, log.progress)
}

func TestRunAllSkipsMissingGeometry(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 10, 0, [2]float64{5, 3})
	f.src.AddTrajectory("Mouse2_SIT.1", DefaultCenterLandmark, constant(1, 1, 10))
	f.src.AddTrajectory("Mouse2_SIT.1", DefaultNoseLandmark, constant(1, 1, 10))

	table, err := New(f.src, f.arena, f.siz, testOptions(nil)).RunAll()
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, table.Analyzed)
	assert.Equal(t, []string{"Mouse2_SIT.1"}, table.Skipped)
	_, ok := table.Value("Mouse2", TimeInZoneColumn("1"))
	assert.False(t, ok)
}

func TestRunAllSingleSessionRatiosAreNaN(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse3_SIT.1", 20, 0, [2]float64{5, 3})

	table, err := New(f.src, f.arena, f.siz, testOptions(nil)).RunAll()
	require.NoError(t, err)

	for _, col := range []string{ColumnTimeSIRTypeA, ColumnTimeSIRTypeB, ColumnDistanceSIRTypeA, ColumnDistanceSIRTypeB} {
		got, ok := table.Value("Mouse3", col)
		assert.True(t, ok)
		assert.True(t, math.IsNaN(got), col)
	}
	_, ok := table.Value("Mouse3", TimeInZoneColumn("2"))
	assert.False(t, ok)
}

func TestRunAllDuplicateSession(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 10, 0, [2]float64{5, 3})
	f.add(t, "Mouse1_retake_SIT.1", 20, 0, [2]float64{5, 3})

	opts := testOptions(nil)
	opts.NameParser = func(id string) (string, string) {
		return "Mouse1", "1"
	}
	log := &recordingLogger{}
	opts.Logger = log

	table, err := New(f.src, f.arena, f.siz, opts).RunAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Mouse1_retake_SIT.1"}, table.Overwritten)
	require.Len(t, log.warn, 1)
	got, _ := table.Value("Mouse1", TimeInZoneColumn("1"))
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestRunAllLengthMismatch(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 10, 0, [2]float64{5, 3})
	f.src.AddRecording("Mouse2_SIT.1", project.Table{
		{Landmark: DefaultCenterLandmark, Axis: project.AxisX}: {1, 2, 3},
		{Landmark: DefaultCenterLandmark, Axis: project.AxisY}: {1, 2},
	}, nil)
	f.arena["Mouse2_SIT.1"] = f.arena["Mouse1_SIT.1"]
	f.siz["Mouse2_SIT.1"] = f.siz["Mouse1_SIT.1"]

	_, err := New(f.src, f.arena, f.siz, testOptions(nil)).RunAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, trajectory.ErrLengthMismatch))
}

func TestAnalyzeOneInterpolatesGaps(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 3, 0, [2]float64{5, 3})
	f.src.AddTrajectory("Mouse1_SIT.1", DefaultCenterLandmark, trajectory.Trajectory{
		{1, 1}, {math.NaN(), math.NaN()}, {3, 3},
	})

	res, err := New(f.src, f.arena, f.siz, testOptions(nil)).AnalyzeOne("Mouse1_SIT.1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Mouse1", res.AnimalID)
	assert.Equal(t, "1", res.Session)
	assert.InDelta(t, 0.3, res.Metrics.TimeInZone, 1e-9)
	assert.InDelta(t, 2*math.Sqrt2, res.Metrics.TotalDistanceTraveled, 1e-9)
}

func TestAnalyzeOneConditions(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Mouse1_SIT.1", 3, 0, [2]float64{5, 3})
	f.src.AddRecording("Mouse1_SIT.1", project.Table{}, map[string]string{"Genotype": "WT"})
	f.src.AddTrajectory("Mouse1_SIT.1", DefaultCenterLandmark, constant(1, 1, 3))
	f.src.AddTrajectory("Mouse1_SIT.1", DefaultNoseLandmark, constant(5, 3, 3))

	opts := testOptions(nil)
	opts.IncludeConditions = true
	table, err := New(f.src, f.arena, f.siz, opts).RunAll()
	require.NoError(t, err)

	cols := table.Columns()
	assert.Equal(t, "Genotype", cols[len(cols)-1])
	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "WT", records[1][len(cols)-1])
}

func TestResultTableCSV(t *testing.T) {
	acc := NewAccumulator()
	acc.Merge(SessionResult{
		Recording: "Mouse1_SIT.1", AnimalID: "Mouse1", Session: "1",
		Metrics: SessionMetrics{TimeInZone: 5, NormalizedDistanceToPOI: 0.5, DistanceToPOI: 2, TotalDistanceTraveled: 10},
	})

	table := BuildTable(acc.Records(), TableOptions{IncludeRawDistance: true})

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	require.Len(t, lines, 2)

	wantHeader := "Animal_ID,Time_in_SIZ_Session1,Time_in_SIZ_Session2," +
		"Normalized_distance_to_POI_Session1,Normalized_distance_to_POI_Session2," +
		"Total_Distance_Traveled_Session1,Total_Distance_Traveled_Session2," +
		"Time_SIR_typeA,Time_SIR_typeB,Distance_SIR_typeA,Distance_SIR_typeB," +
		"Distance_to_POI_Session1,Distance_to_POI_Session2"
	assert.Equal(t, wantHeader, lines[0])
	assert.Equal(t, "Mouse1,5,,0.5,,10,,,,,,2,", lines[1])
}

func TestBuildTableCustomSessions(t *testing.T) {
	acc := NewAccumulator()
	acc.Merge(SessionResult{AnimalID: "A", Session: "pre", Metrics: SessionMetrics{TimeInZone: 2, NormalizedDistanceToPOI: 0.4}})
	acc.Merge(SessionResult{AnimalID: "A", Session: "post", Metrics: SessionMetrics{TimeInZone: 6, NormalizedDistanceToPOI: 0.2}})

	table := BuildTable(acc.Records(), TableOptions{Sessions: Sessions{Baseline: "pre", Test: "post"}})
	assert.Equal(t, []string{
		"Animal_ID", "Time_in_SIZ_Sessionpre", "Time_in_SIZ_Sessionpost",
		"Normalized_distance_to_POI_Sessionpre", "Normalized_distance_to_POI_Sessionpost",
		"Total_Distance_Traveled_Sessionpre", "Total_Distance_Traveled_Sessionpost",
		"Time_SIR_typeA", "Time_SIR_typeB", "Distance_SIR_typeA", "Distance_SIR_typeB",
	}, table.Columns())

	got, _ := table.Value("A", ColumnTimeSIRTypeA)
	assert.InDelta(t, 3.0, got, 1e-12)
	got, _ = table.Value("A", ColumnDistanceSIRTypeB)
	assert.InDelta(t, 0.2/0.6, got, 1e-12)
}

func TestAccumulatorMerge(t *testing.T) {
	acc := NewAccumulator()
	outcomes := []MergeOutcome{
		acc.Merge(SessionResult{AnimalID: "B", Session: "1", Conditions: map[string]string{"Sex": "F"}}),
		acc.Merge(SessionResult{AnimalID: "A", Session: "1"}),
		acc.Merge(SessionResult{AnimalID: "B", Session: "2", Conditions: map[string]string{"Group": "x"}}),
		acc.Merge(SessionResult{AnimalID: "B", Session: "2"}),
	}

	assert.Equal(t, []MergeOutcome{MergeCreated, MergeCreated, MergeUpdated, MergeOverwritten}, outcomes)
	assert.Equal(t, "overwritten", MergeOverwritten.String())
	assert.Equal(t, 2, acc.Len())

	var ids []string
	for _, r := range acc.Records() {
		ids = append(ids, r.AnimalID)
	}
	assert.Equal(t, []string{"B", "A"}, ids)

	b, ok := acc.Get("B")
	require.True(t, ok)
	if diff := cmp.Diff(map[string]string{"Sex": "F", "Group": "x"}, b.Conditions); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
	_, ok = b.Session("2")
	assert.True(t, ok)
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
	}{
		{"plain", 15, 5, 3},
		{"zero numerator", 0, 4, 0},
		{"zero denominator", 3, 0, math.NaN()},
		{"both zero", 0, 0, math.NaN()},
		{"nan numerator", math.NaN(), 2, math.NaN()},
		{"nan denominator", 2, math.NaN(), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.num, tt.den)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 0.75, ShareRatio(5, 15))
	assert.True(t, math.IsNaN(ShareRatio(0, 0)))
}

func TestMarkerNameParser(t *testing.T) {
	tests := []struct {
		id, marker, sep      string
		wantAnimal, wantSess string
	}{
		{"Mouse1_SIT.2", DefaultSessionMarker, DefaultSessionSeparator, "Mouse1", "2"},
		{"Mouse1_SIT.1", DefaultSessionMarker, DefaultSessionSeparator, "Mouse1", "1"},
		{"Rat_7_SIT_day.10", DefaultSessionMarker, DefaultSessionSeparator, "Rat_7", "10"},
		{"NoMarker.3", DefaultSessionMarker, DefaultSessionSeparator, "NoMarker.3", "3"},
		{"Mouse4_SIT", DefaultSessionMarker, DefaultSessionSeparator, "Mouse4", "Mouse4_SIT"},
		{"M5-S-b", "-S", "-", "M5", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			animal, session := MarkerNameParser(tt.marker, tt.sep)(tt.id)
			assert.Equal(t, tt.wantAnimal, animal)
			assert.Equal(t, tt.wantSess, session)
		})
	}
}

func TestSessionResultFields(t *testing.T) {
	res := SessionResult{Session: "2", Metrics: SessionMetrics{TimeInZone: 1, NormalizedDistanceToPOI: 2, DistanceToPOI: 3, TotalDistanceTraveled: 4}}
	want := map[string]float64{
		"Time_in_SIZ_Session2":                1,
		"Normalized_distance_to_POI_Session2": 2,
		"Distance_to_POI_Session2":            3,
		"Total_Distance_Traveled_Session2":    4,
	}
	if diff := cmp.Diff(want, res.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	acc := NewAccumulator()
	acc.Merge(SessionResult{AnimalID: "Mouse1", Session: "1", Metrics: SessionMetrics{TimeInZone: 5}})
	acc.Merge(SessionResult{AnimalID: "Mouse1", Session: "2", Metrics: SessionMetrics{TimeInZone: 15}})
	table := BuildTable(acc.Records(), TableOptions{})
	table.Analyzed = 2
	table.Skipped = []string{"Mouse9_SIT.1"}

	md := RenderMarkdown(table, RunInfo{RunID: "abc", FPS: 30, PixelSize: 0.5, Recordings: 3})
	assert.Contains(t, md, "# SIT analysis report")
	assert.Contains(t, md, "- **Run:** abc")
	assert.Contains(t, md, "- **Recordings analyzed:** 2 of 3")
	assert.Contains(t, md, "- Mouse9_SIT.1")
	assert.Contains(t, md, "| Animal_ID | Time_in_SIZ_Session1 |")
	assert.Contains(t, md, "| Mouse1 | 5 | 15 |")

	html, err := RenderHTML(md)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
	assert.Contains(t, string(html), "<td>Mouse1</td>")
}

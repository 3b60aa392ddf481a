// Package project provides access to tracked pose data and experiment
// conditions. The analysis only depends on the Source contract; Load reads a
// project directory of DeepLabCut-style pose tables from disk.
package project

import (
	"errors"
	"fmt"
	"sort"

	"github.com/madmaxpython/DeepOF-SIT/internal/trajectory"
)

// Axis names used by pose tables.
const (
	AxisX = "x"
	AxisY = "y"
)

var (
	// ErrUnknownRecording is returned for a recording with no pose table.
	ErrUnknownRecording = errors.New("unknown recording")
	// ErrUnknownLandmark is returned when a pose table has no column for a landmark axis.
	ErrUnknownLandmark = errors.New("unknown landmark")
)

// Source is the tracking data contract used by the experiment orchestrator.
type Source interface {
	// Recordings lists the recordings to analyze, in order.
	Recordings() []string
	// Coordinates returns the per-frame values of one landmark axis.
	Coordinates(recording, landmark, axis string) ([]float64, error)
	// Conditions returns the experiment conditions of a recording.
	Conditions(recording string) (map[string]string, bool)
}

// Trajectory reads the x and y axes of a landmark and pairs them.
func Trajectory(src Source, recording, landmark string) (trajectory.Trajectory, error) {
	xs, err := src.Coordinates(recording, landmark, AxisX)
	if err != nil {
		return nil, err
	}
	ys, err := src.Coordinates(recording, landmark, AxisY)
	if err != nil {
		return nil, err
	}
	tr, err := trajectory.FromAxes(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", recording, landmark, err)
	}
	return tr, nil
}

// Table is a frame-indexed pose table keyed by (landmark, axis).
type Table map[Column][]float64

// Column identifies a pose table column.
type Column struct {
	Landmark string
	Axis     string
}

// Landmarks returns the distinct landmark names in the table, sorted.
func (t Table) Landmarks() []string {
	seen := make(map[string]bool)
	var names []string
	for c := range t {
		if !seen[c.Landmark] {
			seen[c.Landmark] = true
			names = append(names, c.Landmark)
		}
	}
	sort.Strings(names)
	return names
}

// Memory is an in-memory Source.
type Memory struct {
	order      []string
	tables     map[string]Table
	conditions map[string]map[string]string
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		tables:     make(map[string]Table),
		conditions: make(map[string]map[string]string),
	}
}

// AddRecording registers a recording with its pose table and conditions.
// Recordings are listed in the order they are added.
func (m *Memory) AddRecording(recording string, table Table, conditions map[string]string) {
	if _, exists := m.tables[recording]; !exists {
		m.order = append(m.order, recording)
	}
	m.tables[recording] = table
	if conditions != nil {
		m.conditions[recording] = conditions
	}
}

// AddTrajectory stores a landmark trajectory for a recording, creating the
// recording if needed.
func (m *Memory) AddTrajectory(recording, landmark string, tr trajectory.Trajectory) {
	table, ok := m.tables[recording]
	if !ok {
		table = make(Table)
		m.AddRecording(recording, table, nil)
	}

	xs := make([]float64, len(tr))
	ys := make([]float64, len(tr))
	for i, row := range tr {
		if len(row) > 0 {
			xs[i] = row[0]
		}
		if len(row) > 1 {
			ys[i] = row[1]
		}
	}
	table[Column{Landmark: landmark, Axis: AxisX}] = xs
	table[Column{Landmark: landmark, Axis: AxisY}] = ys
}

// Recordings implements Source.
func (m *Memory) Recordings() []string {
	return append([]string(nil), m.order...)
}

// Coordinates implements Source.
func (m *Memory) Coordinates(recording, landmark, axis string) ([]float64, error) {
	return lookup(m.tables, recording, landmark, axis)
}

// Conditions implements Source.
func (m *Memory) Conditions(recording string) (map[string]string, bool) {
	c, ok := m.conditions[recording]
	return c, ok
}

func lookup(tables map[string]Table, recording, landmark, axis string) ([]float64, error) {
	table, ok := tables[recording]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecording, recording)
	}
	values, ok := table[Column{Landmark: landmark, Axis: axis}]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s) in %s", ErrUnknownLandmark, landmark, axis, recording)
	}
	return values, nil
}

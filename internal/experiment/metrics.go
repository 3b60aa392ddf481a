package experiment

import "math"

// Column names of the result table.
const (
	ColumnAnimalID = "Animal_ID"

	prefixTimeInZone         = "Time_in_SIZ_Session"
	prefixNormalizedDistance = "Normalized_distance_to_POI_Session"
	prefixDistance           = "Distance_to_POI_Session"
	prefixTotalDistance      = "Total_Distance_Traveled_Session"

	ColumnTimeSIRTypeA     = "Time_SIR_typeA"
	ColumnTimeSIRTypeB     = "Time_SIR_typeB"
	ColumnDistanceSIRTypeA = "Distance_SIR_typeA"
	ColumnDistanceSIRTypeB = "Distance_SIR_typeB"
)

// TimeInZoneColumn returns the time-in-zone column of a session.
func TimeInZoneColumn(session string) string { return prefixTimeInZone + session }

// NormalizedDistanceColumn returns the normalized POI distance column of a session.
func NormalizedDistanceColumn(session string) string { return prefixNormalizedDistance + session }

// DistanceColumn returns the raw POI distance column of a session.
func DistanceColumn(session string) string { return prefixDistance + session }

// TotalDistanceColumn returns the total distance column of a session.
func TotalDistanceColumn(session string) string { return prefixTotalDistance + session }

// SessionMetrics are the scalar metrics of one recording session.
type SessionMetrics struct {
	// TimeInZone is the time in seconds spent inside the SIZ.
	TimeInZone float64
	// NormalizedDistanceToPOI is the mean per-frame POI distance divided by the arena scale.
	NormalizedDistanceToPOI float64
	// DistanceToPOI is the mean per-frame POI distance in pixels.
	DistanceToPOI float64
	// TotalDistanceTraveled is the path length in physical units.
	TotalDistanceTraveled float64
}

// SessionResult is the outcome of analyzing one recording.
type SessionResult struct {
	Recording  string
	AnimalID   string
	Session    string
	Metrics    SessionMetrics
	Conditions map[string]string
}

// Fields returns the metrics keyed by session-qualified column name.
func (r *SessionResult) Fields() map[string]float64 {
	return map[string]float64{
		TimeInZoneColumn(r.Session):         r.Metrics.TimeInZone,
		NormalizedDistanceColumn(r.Session): r.Metrics.NormalizedDistanceToPOI,
		DistanceColumn(r.Session):           r.Metrics.DistanceToPOI,
		TotalDistanceColumn(r.Session):      r.Metrics.TotalDistanceTraveled,
	}
}

// Ratio divides num by den. A NaN operand, a zero denominator or a
// non-finite quotient yields NaN.
func Ratio(num, den float64) float64 {
	if math.IsNaN(num) || math.IsNaN(den) || den == 0 {
		return math.NaN()
	}
	r := num / den
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// ShareRatio returns test / (baseline + test) under the Ratio contract.
func ShareRatio(baseline, test float64) float64 {
	return Ratio(test, baseline+test)
}

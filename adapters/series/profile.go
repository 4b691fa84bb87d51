package series

import (
	"gocpd/domain/core"

	"github.com/montanaflynn/stats"
)

// Profile summarizes a series before detection is planned against it
type Profile struct {
	Length int     `json:"length"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes descriptive statistics over a series
func Summarize(data []float64) (Profile, error) {
	profile := Profile{Length: len(data)}
	if len(data) == 0 {
		return profile, core.NewSeriesError("cannot profile an empty series")
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	min, err := stats.Min(data)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	max, err := stats.Max(data)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	median, err := stats.Median(data)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return profile, core.NewSeriesError(err.Error())
	}

	profile.Mean = mean
	profile.StdDev = stdDev
	profile.Min = min
	profile.Max = max
	profile.Median = median
	profile.Q25 = q25
	profile.Q75 = q75
	return profile, nil
}

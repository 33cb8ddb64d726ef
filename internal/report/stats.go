package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the distance statistics of one agent over a run.
type Summary struct {
	Agent      string  `json:"agent"`
	Steps      int     `json:"steps"`
	SensedMean float64 `json:"sensedMean"`
	SensedStd  float64 `json:"sensedStd"`
	TrueMean   float64 `json:"trueMean"`
	TrueStd    float64 `json:"trueStd"`
	TrueMin    float64 `json:"trueMin"`
	TrueMax    float64 `json:"trueMax"`
	// root mean square of sensed minus true distance
	SensorRMSE float64 `json:"sensorRmse"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%-8s steps=%-5d true=%.3f±%.3f [%.3f, %.3f]  sensed=%.3f±%.3f  rmse=%.3f",
		s.Agent, s.Steps, s.TrueMean, s.TrueStd, s.TrueMin, s.TrueMax, s.SensedMean, s.SensedStd, s.SensorRMSE)
}

// Summarize computes one Summary per agent, in collection order.
// Agents with no samples are skipped.
func (c *Collector) Summarize() []Summary {
	var out []Summary
	for _, s := range c.Series() {
		if len(s.True) == 0 {
			continue
		}
		sum := Summary{Agent: s.Name, Steps: len(s.True)}
		sum.SensedMean, sum.SensedStd = stat.MeanStdDev(s.Sensed, nil)
		sum.TrueMean, sum.TrueStd = stat.MeanStdDev(s.True, nil)
		if sum.Steps < 2 {
			// the sample deviation is undefined for a single step
			sum.SensedStd, sum.TrueStd = 0, 0
		}
		sum.TrueMin = floats.Min(s.True)
		sum.TrueMax = floats.Max(s.True)

		diff := make([]float64, len(s.True))
		floats.SubTo(diff, s.Sensed, s.True)
		sum.SensorRMSE = floats.Norm(diff, 2) / math.Sqrt(float64(len(diff)))
		out = append(out, sum)
	}
	return out
}

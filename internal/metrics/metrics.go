package metrics

import "github.com/tuanphanughdtun/schedule/internal/job"

// Metrics summarizes one schedule. For an empty schedule every value is zero.
type Metrics struct {
	Jobs int

	Makespan          float64
	TotalTardiness    float64
	MaxTardiness      float64
	MeanFlowTime      float64
	MinFlowTime       float64
	MaxFlowTime       float64
	LateJobs          int
	OnTimeJobs        int
	Utilization       float64 // percent: sum(processing) / sum(flow) * 100
	AvgJobsInSystem   float64 // sum(flow) / sum(processing)
	AvgCompletionTime float64 // sum(flow) / n
	AvgLateness       float64 // total tardiness / n
	IdleTime          float64 // makespan - sum(processing), floored at zero

	TotalProcessingTime float64
	TotalFlowTime       float64
}

// Accumulator collects per-job figures for a schedule
type Accumulator struct {
	Jobs                int
	LateJobs            int
	TotalProcessingTime float64
	TotalFlowTime       float64
	TotalTardiness      float64

	// Samples for min/max/avg calculations
	FinishSamples    []float64
	FlowTimeSamples  []float64
	TardinessSamples []float64
}

// Add adds one scheduled job to the accumulator
func (acc *Accumulator) Add(s job.ScheduledJob) {
	acc.Jobs++
	acc.TotalProcessingTime += s.ProcessingTime
	acc.TotalFlowTime += s.FlowTime
	acc.TotalTardiness += s.Lateness
	if s.Late() {
		acc.LateJobs++
	}

	acc.FinishSamples = append(acc.FinishSamples, s.Finish)
	acc.FlowTimeSamples = append(acc.FlowTimeSamples, s.FlowTime)
	acc.TardinessSamples = append(acc.TardinessSamples, s.Lateness)
}

// Metrics computes the aggregate figures from the accumulated jobs
func (acc *Accumulator) Metrics() Metrics {
	if acc.Jobs == 0 {
		return Metrics{}
	}

	n := float64(acc.Jobs)
	_, makespan, _ := calculateMinMaxAvg(acc.FinishSamples)
	minFlow, maxFlow, meanFlow := calculateMinMaxAvg(acc.FlowTimeSamples)
	_, maxTardiness, _ := calculateMinMaxAvg(acc.TardinessSamples)

	m := Metrics{
		Jobs:                acc.Jobs,
		Makespan:            makespan,
		TotalTardiness:      acc.TotalTardiness,
		MaxTardiness:        maxTardiness,
		MeanFlowTime:        meanFlow,
		MinFlowTime:         minFlow,
		MaxFlowTime:         maxFlow,
		LateJobs:            acc.LateJobs,
		OnTimeJobs:          acc.Jobs - acc.LateJobs,
		Utilization:         safeDiv(acc.TotalProcessingTime, acc.TotalFlowTime) * 100,
		AvgJobsInSystem:     safeDiv(acc.TotalFlowTime, acc.TotalProcessingTime),
		AvgCompletionTime:   acc.TotalFlowTime / n,
		AvgLateness:         acc.TotalTardiness / n,
		TotalProcessingTime: acc.TotalProcessingTime,
		TotalFlowTime:       acc.TotalFlowTime,
	}
	if idle := makespan - acc.TotalProcessingTime; idle > 0 {
		m.IdleTime = idle
	}
	return m
}

// Compute calculates the metrics of a schedule
func Compute(schedule []job.ScheduledJob) Metrics {
	acc := &Accumulator{}
	for _, s := range schedule {
		acc.Add(s)
	}
	return acc.Metrics()
}

// Helper functions for min/max/avg calculations

func calculateMinMaxAvg(values []float64) (min, max, avg float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	min = values[0]
	max = values[0]
	sum := 0.0

	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	avg = sum / float64(len(values))
	return min, max, avg
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

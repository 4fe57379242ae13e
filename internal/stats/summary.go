package stats

// Summary holds the descriptive statistics reported for one column.
type Summary struct {
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Range  float64 `json:"range" yaml:"range"`
}

// Summarize computes Sum, Mean, Median and Range for data. The first failing
// statistic aborts the summary.
func Summarize(data []float64, policy MedianPolicy) (Summary, error) {
	s := Summary{Sum: Sum(data)}
	var err error
	if s.Mean, err = Mean(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = Median(data, policy); err != nil {
		return Summary{}, err
	}
	if s.Range, err = Range(data); err != nil {
		return Summary{}, err
	}
	return s, nil
}

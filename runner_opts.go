package ziptree

// runnerConfig holds configuration for a Runner.
type runnerConfig struct {
	concurrency int
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

// RunnerWithConcurrency sets how many operations may run at once.
// Values below 1 are treated as 1. Default: runtime.GOMAXPROCS(0).
func RunnerWithConcurrency(n int) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.concurrency = n
	}
}

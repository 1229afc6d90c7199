package config

import "runtime"

// ApplyAdaptiveWorkers replaces an unset worker count with one worker per
// logical CPU, preserving any explicit value from flags or environment.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers returns the default pool width.
func EstimateOptimalWorkers() int {
	return max(1, runtime.NumCPU())
}

// Package orchestration runs the selected strategies one after another over a
// kernel, times each phase, and checks that the strategies agree. It decouples
// business logic from presentation via ProgressReporter and ResultPresenter
// interfaces.
package orchestration

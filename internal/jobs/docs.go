// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PackageGenerationJob - Runs batch package generation for the current
// service date on a configurable cron schedule, so orders that arrived since
// the last run are dispatched without operator involvement.
//
// JobManager wires the jobs together and exposes StartAll/StopAll for the
// application lifecycle.
package jobs

// Package scheduler runs a job on a cron schedule.
//
// Runs never overlap: a tick that fires while the previous run is still in
// progress is skipped and counted. Stop cancels the context handed to the
// running job and waits for it to return.
package scheduler

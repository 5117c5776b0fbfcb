// Package checks defines the Check unit and the ordered catalogue the
// pipeline runs.
//
// A check is independent of every other check: it reads the immutable
// RunContext and returns findings. Checks come in three kinds. Scan checks
// drive the line scanner over a rule set, whole-file checks look at a file
// (or the repository) as a whole, and external-tool checks shell out
// through a toolrun.Runner.
//
// Registration order is significant. It is the order checks run in and
// the order their findings are concatenated before sorting.
package checks

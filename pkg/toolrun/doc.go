// Package toolrun invokes external verification tools and turns their
// unstructured output into findings.
//
// Every invocation goes through a Runner with a hard timeout that also
// bounds the reads of the output streams. The build-graph adapter owns a
// throwaway output directory per call and always removes it.
//
// Output parsing is isolated in small pure functions (ParseBuildErrors,
// ScanLogMarkers) tested against captured tool output.
package toolrun

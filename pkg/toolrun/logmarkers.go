package toolrun

import (
	"strings"
)

// LogMarkers are the prefixes tools use for error and fatal log lines
var LogMarkers = []string{"[ERROR:", "[FATAL:"}

// Stream is one named output stream of a tool
type Stream struct {
	Name string
	Text string
}

// LogMarker is a line of tool output carrying an error or fatal marker
type LogMarker struct {
	Stream string
	Line   int
	Marker string
	Text   string
}

// ScanLogMarkers checks every line of every stream for any of LogMarkers
func ScanLogMarkers(streams ...Stream) []LogMarker {
	var found []LogMarker
	for _, s := range streams {
		for i, line := range strings.Split(s.Text, "\n") {
			for _, marker := range LogMarkers {
				if strings.Contains(line, marker) {
					found = append(found, LogMarker{
						Stream: s.Name,
						Line:   i + 1,
						Marker: marker,
						Text:   strings.TrimRight(line, "\r"),
					})
					break
				}
			}
		}
	}
	return found
}

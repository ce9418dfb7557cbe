// Package listing parses the technical table printed by `7z l`.
package listing

import (
	"errors"
	"strings"

	"github.com/mattsolo1/content7z/pkg/tree"
)

// ErrMalformedListing is returned when the lister output does not contain the
// expected table.
var ErrMalformedListing = errors.New("malformed archive listing")

const (
	// Header is the column title row of the table.
	Header = "   Date      Time    Attr         Size   Compressed  Name"
	// Separator is the dashed row printed below Header and after the last entry.
	Separator = "------------------- ----- ------------ ------------  ------------------------"

	attrStart = 20
	attrEnd   = 25
	nameStart = 53

	dirMarker = "D...."
	endMarker = "-----"
)

// Result is the outcome of parsing a listing.
type Result struct {
	Records []tree.Record
	// Skipped holds data lines too short to carry a name column.
	Skipped []string
}

// Parse extracts the ordered (path, is-directory) records from the output of
// `7z l`. Parsing stops at the closing separator or the end of input.
func Parse(output string) (*Result, error) {
	lines := strings.Split(output, "\n")

	start := -1
	for i := 0; i+1 < len(lines); i++ {
		if trimCR(lines[i]) == Header && trimCR(lines[i+1]) == Separator {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return nil, ErrMalformedListing
	}

	res := &Result{}
	for _, line := range lines[start:] {
		line = trimCR(line)
		if len(line) >= attrEnd && line[attrStart:attrEnd] == endMarker {
			break
		}
		if len(line) <= nameStart {
			if strings.TrimSpace(line) != "" {
				res.Skipped = append(res.Skipped, line)
			}
			continue
		}
		res.Records = append(res.Records, tree.Record{
			Path:  line[nameStart:],
			IsDir: line[attrStart:attrEnd] == dirMarker,
		})
	}
	return res, nil
}

// ArchivePath returns the value of the "Path = " line that 7z prints ahead of
// the archive's "Type = " line, or "" when there is none.
func ArchivePath(output string) string {
	const key = "Path = "
	for _, line := range strings.Split(output, "\n") {
		line = trimCR(line)
		if strings.HasPrefix(line, key) {
			return line[len(key):]
		}
		if strings.HasPrefix(line, "Type = ") {
			break
		}
	}
	return ""
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}

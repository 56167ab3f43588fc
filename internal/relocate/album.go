package relocate

import (
	"fmt"
	"path/filepath"
	"strings"

	"extrafiles/internal/pathtmpl"
)

// Album is the per-album view handed to the pipeline: a root directory and
// the flat metadata fields available to path templates.
type Album struct {
	ID     int64
	Root   string
	Fields map[string]any
}

// Snapshot returns a copy of the album fields with albumpath set to the
// album root.
func (a Album) Snapshot() map[string]any {
	out := make(map[string]any, len(a.Fields)+1)
	for k, v := range a.Fields {
		out[k] = v
	}
	if a.Root != "" {
		out[pathtmpl.AlbumPathField] = a.Root
	}
	return out
}

// Label returns a short human readable name for logs.
func (a Album) Label() string {
	artist := fieldString(a.Fields, "albumartist")
	title := fieldString(a.Fields, "album")
	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	case a.Root != "":
		return filepath.Base(a.Root)
	default:
		return fmt.Sprintf("album %d", a.ID)
	}
}

func fieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(pathtmpl.FormatValue(v))
}

// Entry is one resolved relocation.
type Entry struct {
	Source      string
	Destination string
	Category    string
	Album       string
}

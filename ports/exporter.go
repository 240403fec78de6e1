package ports

import (
	"io"

	"macrolens/domain/macro"
)

// ClusterExporter writes the cluster indicator list and the joined peer view
// to a tabular document
type ClusterExporter interface {
	Export(w io.Writer, indicators []string, view *macro.PeerView) error
}

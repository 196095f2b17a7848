package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/artifact"
)

// Outputs decides where generated PDFs are written. Folders from the
// business settings win over the configured defaults; Remote, when set,
// takes over if the local write fails.
type Outputs struct {
	InvoiceDir string
	StampedDir string
	Remote     artifact.Sink
}

// For returns the sink for a settings folder, falling back to def.
func (o Outputs) For(dir, def string) artifact.Sink {
	if dir == "" {
		dir = def
	}
	var local artifact.Sink
	if dir != "" {
		local = artifact.NewDirSink(dir)
	}
	if o.Remote == nil {
		if local == nil {
			return artifact.NewDirSink("")
		}
		return local
	}
	return artifact.Fallback{Primary: local, Secondary: o.Remote}
}

// deliver saves data and sends it back. A failed save is not an error for
// the client: the document is returned as a download instead.
func deliver(ctx context.Context, w http.ResponseWriter, sink artifact.Sink, filename string, data []byte, download bool) {
	loc, err := sink.Save(ctx, filename, data)
	if err != nil {
		log.Printf("[api] save %s failed, falling back to download: %v", filename, err)
		w.Header().Set("X-Facio-Saved", "false")
		httpx.PDF(w, filename, data, true)
		return
	}
	w.Header().Set("X-Facio-Saved", "true")
	w.Header().Set("X-Facio-Saved-To", loc)
	httpx.PDF(w, filename, data, download)
}

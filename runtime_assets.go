package formblock

import (
	"io/fs"

	"github.com/goliatone/go-formblock/pkg/renderers/vanilla"
)

// RuntimeAssetsFS exposes the browser runtime and the default stylesheet so Go
// applications can serve them without a build step.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(formblock.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

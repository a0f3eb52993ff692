package meta

import "github.com/commschamp/commsdslgen/internal/codegen/gen"

// Metadata holds everything a backend needs for one generation run.
// Shared between the generator orchestrator and the language backends.
type Metadata struct {
	Graph   *gen.Generator // prepared schema graph, output dir already set
	Writer  *gen.Writer    // rooted at the backend output dir
	Version string         // commsdslgen version stamped into generated files
}

// Package pkg holds the libraries behind calctree, the dependency ranker for
// the character sheet calculation scripts.
//
// # Overview
//
// Every calculation script declares what it reads and what it writes with
// comment lines:
//
//	# token input: abilities|strength
//	# token output: combat|melee attack
//
// calctree collects those declarations and assigns every item key a
// calculation stage, so that an item is only computed after everything it
// reads. The stages are saved as the "dependency tree" artifact that the
// sheet generator walks in order.
//
// # Architecture
//
// The data flow through calctree:
//
//	calculation scripts
//	         ↓
//	    [declare] package (scan "# token" declarations)
//	         ↓
//	    [rank] package (assign stages, detect cycles)
//	         ↓
//	    [dag] package (ranked graph + validation)
//	         ↓
//	    [io] and [render/nodelink] packages
//	         ↓
//	    JSON artifact, DOT/SVG/PNG diagrams
//
// [pipeline] runs these stages with caching from [cache], configured by
// [config] and reported through [observability].
//
// # Sheet helpers
//
// [talent], [calc] and [textfmt] are the helpers the calculation scripts
// share: talent codes and stacking names, calculation detail strings, and
// the name and code conversions used throughout the reference data.
//
// [declare]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/declare
// [rank]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/rank
// [dag]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/dag
// [io]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/cache
// [config]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/config
// [observability]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/observability
// [talent]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/talent
// [calc]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/calc
// [textfmt]: https://pkg.go.dev/github.com/fiktools/calctree/pkg/textfmt
package pkg

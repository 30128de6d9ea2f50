// Package backend exposes codecompare operations as tools.
//
// A [Backend] is a named source of tools. The codecompare tools
// (compare_code, run_code, list_languages) live in a local backend built by
// the toolset package; the [Registry] holds backends, the [Aggregator]
// routes "namespace:tool" IDs to them, and a [Catalog] indexes every tool
// for search and documentation.
//
//	reg := backend.NewRegistry()
//	_ = reg.Register(toolset.New(x))
//
//	agg := backend.NewAggregator(reg)
//	out, _ := agg.Execute(ctx, "codecompare:compare_code", args)
//
//	cat, _ := agg.Catalog(ctx)
//	hits, _ := cat.Search("diff two programs", 5)
package backend

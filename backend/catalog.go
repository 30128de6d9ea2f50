package backend

import (
	"context"
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
)

// Catalog indexes the tools of every enabled backend for search and
// documentation lookup.
type Catalog struct {
	idx   index.Index
	docs  tooldoc.Store
	tools []model.Tool
}

// Catalog builds a catalog of the aggregator's current tools. Each tool is
// registered with a local backend reference named after its namespace.
func (a *Aggregator) Catalog(ctx context.Context) (*Catalog, error) {
	tools, err := a.ListAllTools(ctx)
	if err != nil {
		return nil, err
	}

	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})
	for _, tool := range tools {
		if err := idx.RegisterTool(tool, model.NewLocalBackend(tool.Namespace)); err != nil {
			return nil, fmt.Errorf("register %s: %w", FormatToolID(tool.Namespace, tool.Name), err)
		}
	}

	var docs tooldoc.Store = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	if store, ok := docs.(*tooldoc.InMemoryStore); ok {
		for _, tool := range tools {
			id := FormatToolID(tool.Namespace, tool.Name)
			if err := store.RegisterDoc(id, tooldoc.DocEntry{Summary: tool.Description, Notes: tool.Title}); err != nil {
				return nil, fmt.Errorf("document %s: %w", id, err)
			}
		}
	}

	return &Catalog{idx: idx, docs: docs, tools: tools}, nil
}

// Tools returns the indexed tools.
func (c *Catalog) Tools() []model.Tool {
	return c.tools
}

// Search finds tools matching a query.
func (c *Catalog) Search(query string, limit int) ([]index.Summary, error) {
	return c.idx.Search(query, limit)
}

// Namespaces lists the indexed namespaces.
func (c *Catalog) Namespaces() ([]string, error) {
	return c.idx.ListNamespaces()
}

// Describe returns the full documentation of a tool: its definition,
// summary, notes and the parameter info derived from its input schema.
func (c *Catalog) Describe(toolID string) (tooldoc.ToolDoc, error) {
	return c.docs.DescribeTool(toolID, tooldoc.DetailFull)
}

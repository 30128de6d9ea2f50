package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/codecompare/backend"
	"github.com/jonwraymond/codecompare/render"
)

// toolRow is one line of the tools listing.
type toolRow struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func newToolsCmd(a *app) *cobra.Command {
	var (
		limit      int
		describe   string
		namespaces bool
	)
	cmd := &cobra.Command{
		Use:   "tools [QUERY...]",
		Short: "List, search or describe the tools served by serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := a.aggregator()
			if err != nil {
				return err
			}
			cat, err := agg.Catalog(cmd.Context())
			if err != nil {
				return err
			}

			switch {
			case describe != "":
				return a.describeTool(cat, describe)
			case namespaces:
				ns, err := cat.Namespaces()
				if err != nil {
					return err
				}
				if a.flags.json {
					return render.WriteJSON(a.stdout, ns)
				}
				_, err = fmt.Fprintln(a.stdout, strings.Join(ns, "\n"))
				return err
			}

			var rows []toolRow
			if query := strings.Join(args, " "); query != "" {
				hits, err := cat.Search(query, limit)
				if err != nil {
					return err
				}
				for _, h := range hits {
					rows = append(rows, toolRow{ID: h.ID, Description: h.ShortDescription})
				}
			} else {
				for _, t := range cat.Tools() {
					rows = append(rows, toolRow{ID: backend.FormatToolID(t.Namespace, t.Name), Description: t.Description})
				}
			}

			if a.flags.json {
				return render.WriteJSON(a.stdout, rows)
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum search results")
	cmd.Flags().StringVar(&describe, "describe", "", "show the documentation of a tool `ID` (namespace:name)")
	cmd.Flags().BoolVar(&namespaces, "namespaces", false, "list tool namespaces")
	cmd.MarkFlagsMutuallyExclusive("describe", "namespaces")
	return cmd
}

func (a *app) describeTool(cat *backend.Catalog, id string) error {
	doc, err := cat.Describe(id)
	if err != nil {
		return usageError(err)
	}
	if a.flags.json {
		return render.WriteJSON(a.stdout, doc)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", id)
	if doc.Notes != "" {
		fmt.Fprintf(tw, "title\t%s\n", doc.Notes)
	}
	fmt.Fprintf(tw, "summary\t%s\n", doc.Summary)
	if info := doc.SchemaInfo; info != nil {
		names := make([]string, 0, len(info.Types))
		for name := range info.Types {
			names = append(names, name)
		}
		sort.Strings(names)
		required := make(map[string]bool, len(info.Required))
		for _, name := range info.Required {
			required[name] = true
		}
		for _, name := range names {
			flag := "optional"
			if required[name] {
				flag = "required"
			}
			fmt.Fprintf(tw, "param\t%s\t%s\t%s\n", name, strings.Join(info.Types[name], "|"), flag)
		}
	}
	return tw.Flush()
}

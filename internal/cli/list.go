package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
)

type listOptions struct {
	ids    []string
	search string
	sortBy string
	desc   bool
	output string
}

func newListCommand(flags *globalFlags) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects",
		Long: `List the objects in the collection.

Examples:
  shelf list
  shelf list --search apple --sort price --desc
  shelf list --id 3 --id 5 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			sortKey, order, sorted, err := opts.sortSpec()
			if err != nil {
				return err
			}
			return flags.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				objects, err := opts.fetch(ctx, env.Client)
				if err != nil {
					return err
				}
				objects = catalog.Filter(objects, opts.search)
				if sorted {
					objects = catalog.Sort(objects, sortKey, order)
				}
				return writeObjects(cmd.OutOrStdout(), format, objects)
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.ids, "id", nil, "Only fetch these ids (repeatable or comma-separated)")
	f.StringVar(&opts.search, "search", "", "Case-insensitive match on name and attribute values")
	f.StringVar(&opts.sortBy, "sort", "", "Sort by name, price or id (default: server order)")
	f.BoolVar(&opts.desc, "desc", false, "Sort descending (sorts by id when --sort is not set)")
	f.StringVarP(&opts.output, "output", "o", "", "Output format: table, json or yaml")
	return cmd
}

// sortSpec reports how to order the results; sorted is false when the
// server order should be kept.
func (o *listOptions) sortSpec() (catalog.SortKey, catalog.SortOrder, bool, error) {
	order := catalog.Asc
	if o.desc {
		order = catalog.Desc
	}
	if o.sortBy == "" {
		return catalog.SortID, order, o.desc, nil
	}
	key, err := catalog.ParseSortKey(o.sortBy)
	if err != nil {
		return "", "", false, err
	}
	return key, order, true, nil
}

func (o *listOptions) fetch(ctx context.Context, client *api.Client) ([]api.Object, error) {
	if len(o.ids) > 0 {
		objects, err := client.GetObjectsByIDs(ctx, o.ids)
		return objects, wrapRequest(fmt.Sprintf("fetch %d objects", len(o.ids)), err)
	}
	objects, err := client.ListObjects(ctx)
	return objects, wrapRequest("list objects", err)
}

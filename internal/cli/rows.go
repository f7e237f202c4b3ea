package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/spf13/cobra"
)

func newSelectCommand(a *app) *cobra.Command {
	var (
		columns []string
		filters []string
		orders  []string
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "select <relation>",
		Short: "Read rows from a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := applyFilters(a.client.From(args[0]).Select(columns...), filters)
			if err != nil {
				return err
			}
			for _, o := range orders {
				column, opts, err := parseOrder(o)
				if err != nil {
					return err
				}
				q = q.Order(column, opts)
			}
			if cmd.Flags().Changed("limit") {
				q = q.Limit(limit)
			}
			if cmd.Flags().Changed("offset") {
				q = q.Offset(offset)
			}

			rows, err := postgrest.Execute[[]json.RawMessage](cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&columns, "columns", "c", nil, "columns to return (default all)")
	f.StringArrayVarP(&filters, "filter", "f", nil, "filter as column=op.value, repeatable")
	f.StringArrayVarP(&orders, "order", "o", nil, "sort as column[.desc][.nullsfirst], repeatable")
	f.IntVar(&limit, "limit", 0, "maximum number of rows")
	f.IntVar(&offset, "offset", 0, "number of rows to skip")
	return cmd
}

func newInsertCommand(a *app) *cobra.Command {
	var (
		data           string
		count          string
		missingDefault bool
	)

	cmd := &cobra.Command{
		Use:   "insert <relation>",
		Short: "Insert a row, or every row of a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCount(count)
			if err != nil {
				return err
			}
			var value any
			if err := json.Unmarshal([]byte(data), &value); err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
			opts := &postgrest.InsertOptions{Count: c}
			if missingDefault {
				opts.DefaultToNull = new(bool)
			}

			qb := a.client.From(args[0])
			var q *postgrest.FilterBuilder
			switch v := value.(type) {
			case []any:
				q = qb.InsertMany(v, opts)
			case map[string]any:
				q = qb.Insert(v, opts)
			default:
				return errors.New("invalid --data: want a JSON object or array")
			}

			n, err := postgrest.Execute[int](cmd.Context(), q)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d row(s)\n", n)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&data, "data", "d", "", "row as a JSON object, or rows as a JSON array")
	f.StringVar(&count, "count", "", "count mode: exact, planned or estimated")
	f.BoolVar(&missingDefault, "missing-default", false, "fill missing columns with their default instead of null")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var (
		filters []string
		count   string
	)

	cmd := &cobra.Command{
		Use:   "delete <relation>",
		Short: "Delete the rows matching every filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(filters) == 0 {
				return errors.New("refusing to delete without --filter")
			}
			c, err := parseCount(count)
			if err != nil {
				return err
			}
			q, err := applyFilters(a.client.From(args[0]).
				Header("Prefer", "return=representation").
				Delete(&postgrest.DeleteOptions{Count: c}), filters)
			if err != nil {
				return err
			}

			rows, err := postgrest.Execute[[]json.RawMessage](cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&filters, "filter", "f", nil, "filter as column=op.value, repeatable")
	f.StringVar(&count, "count", "", "count mode: exact, planned or estimated")
	return cmd
}

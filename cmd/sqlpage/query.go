package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RichardKnop/sqlpage"
	"github.com/RichardKnop/sqlpage/internal/pkg/util"
	"github.com/RichardKnop/sqlpage/sqlexec"
)

type pageFlags struct {
	pageNum  int
	pageSize int
	orders   []string
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageNum, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "size", 0, "page size, 0 uses the configured default")
	cmd.Flags().StringSliceVar(&f.orders, "order", nil, "ordering as column[:asc|desc], repeatable")
}

func (f *pageFlags) page() (*sqlpage.Page, error) {
	page := sqlpage.NewPage(f.pageNum, f.pageSize)
	for _, order := range f.orders {
		column, direction, _ := strings.Cut(order, ":")
		orderType := sqlpage.Asc
		if direction != "" {
			var err error
			orderType, err = sqlpage.ParseOrderType(direction)
			if err != nil {
				return nil, fmt.Errorf("order %q: %w", order, err)
			}
		}
		page.OrderBy(strings.TrimSpace(column), orderType)
	}
	return page, nil
}

func bindArgs(args []string) []any {
	bound := make([]any, 0, len(args))
	for _, arg := range args {
		bound = append(bound, arg)
	}
	return bound
}

func newQueryCommand(flags *globalFlags) *cobra.Command {
	var (
		paging pageFlags
		all    bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "query SQL [ARG...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Run a SELECT statement one page at a time and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			config, err := flags.config()
			if err != nil {
				return err
			}
			anInterceptor, err := sqlpage.New(config, sqlpage.WithLogger(logger))
			if err != nil {
				return err
			}

			db, err := flags.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			var parameter any
			if !all {
				page, err := paging.page()
				if err != nil {
					return err
				}
				parameter = page
			}

			result, err := anInterceptor.Query(cmd.Context(), sqlpage.Request{
				Statement: &sqlpage.MappedStatement{ID: "cli.query", Source: args[0], Result: sqlpage.ResultRows},
				Parameter: parameter,
				Bounds:    sqlpage.DefaultRowBounds,
				Bound:     &sqlpage.BoundSQL{SQL: args[0], Args: bindArgs(args[1:])},
			}, sqlexec.New(db, logger))
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result, format)
		},
	}

	paging.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "run the statement without paging")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or table")

	return cmd
}

func printResult(w io.Writer, result *sqlpage.Result, format string) error {
	switch format {
	case "json":
		var output any = result.Rows
		if result.Paged() {
			output = result.Page
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	case "table":
		util.PrintTable(w, util.RowColumns(result.Rows), result.Rows)
		if result.Paged() {
			fmt.Fprintf(w, "page %d of %d, %d rows total\n", result.Page.PageNum, result.Page.Pages(), result.Page.TotalRows)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

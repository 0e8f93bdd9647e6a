package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichardKnop/sqlpage"
)

func newExplainCommand(flags *globalFlags) *cobra.Command {
	var paging pageFlags

	cmd := &cobra.Command{
		Use:   "explain SQL",
		Args:  cobra.ExactArgs(1),
		Short: "Print the count and page statements derived from a SELECT",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.config()
			if err != nil {
				return err
			}
			aDialect, err := sqlpage.LookupDialect(config.Dialect, config.StrictDialect)
			if err != nil {
				return err
			}

			page, err := paging.page()
			if err != nil {
				return err
			}
			if page.PageSize < 1 {
				page.PageSize = config.DefaultPageSize
			}

			ms := &sqlpage.MappedStatement{ID: "cli.explain", Source: args[0], Result: sqlpage.ResultRows}
			if !aDialect.CanPage(ms, args[0], page) {
				return fmt.Errorf("statement cannot be paged by the %s dialect", aDialect.Name())
			}

			bound := &sqlpage.BoundSQL{SQL: args[0]}
			pageSQL, err := aDialect.PageSQL(bound, page, page.RowBounds(), page.Orders)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dialect: %s\n", aDialect.Name())
			fmt.Fprintf(out, "count:   %s\n", aDialect.CountSQL(bound, page).SQL)
			fmt.Fprintf(out, "page:    %s\n", pageSQL.SQL)
			return nil
		},
	}

	paging.register(cmd)

	return cmd
}

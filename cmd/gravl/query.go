package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	gravl "github.com/gravldb/gravl-go"
)

var queryCmd = &cobra.Command{
	Use:   "query <cypher>",
	Short: "Execute a query against the selected graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, graph, err := selectGraph(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := graph.Query(cmd.Context(), args[0], &gravl.QueryOptions{
			Timeout: flagTimeout,
		})
		if err != nil {
			return err
		}

		printResult(cmd, result)
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <cypher>",
	Short: "Print the execution plan for a query without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, graph, err := selectGraph(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		plan, err := graph.Explain(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		cmd.Println(plan)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <cypher>",
	Short: "Run a query and print its profiled execution plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, graph, err := selectGraph(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		plan, err := graph.Profile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		cmd.Println(plan)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the graphs in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		graphs, err := db.List(cmd.Context())
		if err != nil {
			return err
		}

		for _, g := range graphs {
			cmd.Println(g)
		}
		return nil
	},
}

func printResult(cmd *cobra.Command, result *gravl.QueryResult) {
	if !result.IsEmpty() {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)

		names := make([]string, len(result.Header))
		for i, col := range result.Header {
			names[i] = col.Name
		}
		fmt.Fprintln(w, strings.Join(names, "\t"))

		for _, row := range result.ResultSet {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = fmt.Sprint(v)
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		w.Flush()
	}

	for _, line := range result.Metadata {
		cmd.Println(line)
	}
}

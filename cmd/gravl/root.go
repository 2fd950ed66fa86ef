package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	gravl "github.com/gravldb/gravl-go"
)

var (
	flagConfig   string
	flagAddr     string
	flagPassword string
	flagGraph    string
	flagTimeout  int
)

// fileConfig mirrors the persistent flags; flags win over file values.
type fileConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Graph    string `yaml:"graph"`
	Timeout  int    `yaml:"timeout"`
}

var rootCmd = &cobra.Command{
	Use:   "gravl",
	Short: "GravlDB command line client",
	Long: `gravl talks to a GravlDB server over the Redis wire protocol.

Connection settings come from flags or a YAML config file:

	addr: localhost:6379
	graph: social`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	pf.StringVar(&flagAddr, "addr", "localhost:6379", "server address (host:port)")
	pf.StringVar(&flagPassword, "password", "", "server password")
	pf.StringVarP(&flagGraph, "graph", "g", "", "graph name")
	pf.IntVar(&flagTimeout, "timeout", 0, "query timeout in milliseconds")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig merges the YAML config file into any flags the user did not
// set explicitly.
func loadConfig(cmd *cobra.Command, args []string) error {
	if flagConfig == "" {
		return nil
	}

	data, err := os.ReadFile(flagConfig)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", flagConfig, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("addr") && cfg.Addr != "" {
		flagAddr = cfg.Addr
	}
	if !flags.Changed("password") && cfg.Password != "" {
		flagPassword = cfg.Password
	}
	if !flags.Changed("graph") && cfg.Graph != "" {
		flagGraph = cfg.Graph
	}
	if !flags.Changed("timeout") && cfg.Timeout != 0 {
		flagTimeout = cfg.Timeout
	}
	return nil
}

func connect(cmd *cobra.Command) (*gravl.DB, error) {
	return gravl.Connect(cmd.Context(), &gravl.Options{
		Addr:     flagAddr,
		Password: flagPassword,
	})
}

func selectGraph(cmd *cobra.Command) (*gravl.DB, *gravl.Graph, error) {
	if flagGraph == "" {
		return nil, nil, fmt.Errorf("no graph selected (use --graph or the config file)")
	}

	db, err := connect(cmd)
	if err != nil {
		return nil, nil, err
	}
	return db, db.SelectGraph(flagGraph), nil
}

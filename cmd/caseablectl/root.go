package main

import (
	"encoding/json"
	"fmt"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/config"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// offlineAnnotation marks commands that never call the catalog service.
const offlineAnnotation = "offline"

// Version is set at build time with -ldflags "-X main.Version=v1.0.0".
var Version = "dev"

// app carries what every command needs once the root command has loaded
// the configuration.
type app struct {
	baseURL string
	partner string
	region  string
	lang    string
	user    string
	pass    string

	cfg    *config.Config
	logger zerolog.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "caseablectl",
		Short:         "Query the caseable catalog and manage orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cmd.Name() == "version" || cmd.Name() == "help":
				return nil
			case cmd.Annotations[offlineAnnotation] != "":
				return a.setupLocal(cmd)
			}
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.baseURL, "base-url", "", "catalog service base URL (env CATALOG_BASE_URL)")
	flags.StringVar(&a.partner, "partner", "", "partner id (env CATALOG_PARTNER)")
	flags.StringVar(&a.region, "region", "", "catalog region (env CATALOG_REGION)")
	flags.StringVar(&a.lang, "lang", "", "catalog language (env CATALOG_LANG)")
	flags.StringVar(&a.user, "user", "", "order API user (env ORDERS_USER)")
	flags.StringVar(&a.pass, "pass", "", "order API password (env ORDERS_PASS)")

	root.AddCommand(
		newProductTypesCmd(a),
		newDevicesCmd(a),
		newFiltersCmd(a),
		newFilterOptionsCmd(a),
		newProductsCmd(a),
		newOrdersCmd(a),
		newSnapshotCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of caseablectl",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
			},
		},
	)

	return root
}

// setup loads the environment configuration, applies the flags that were
// set and initializes the catalog client.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}

	cfg, err := config.LoadCatalog(func(c *config.Config) {
		override("base-url", &c.Catalog.BaseURL, a.baseURL)
		override("partner", &c.Catalog.Partner, a.partner)
		override("region", &c.Catalog.Region, a.region)
		override("lang", &c.Catalog.Lang, a.lang)
		override("user", &c.Orders.User, a.user)
		override("pass", &c.Orders.Pass, a.pass)
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg
	a.logger = config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr()).
		With().Str("component", "caseablectl").Logger()
	a.client = client.New(
		transport.New(cfg.Catalog.TransportConfig(), a.logger),
		cfg.Catalog.ClientOptions(),
		a.logger,
	)

	if err := a.client.Initialize(cfg.Catalog.BaseURL, cfg.Catalog.Partner, cfg.Catalog.Region, cfg.Catalog.Lang); err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	return nil
}

// setupLocal loads the configuration of a command that only works on
// local data. a.client stays nil.
func (a *app) setupLocal(cmd *cobra.Command) error {
	cfg, err := config.LoadLocal()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg
	a.logger = config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr()).
		With().Str("component", "caseablectl").Logger()
	return nil
}

// printJSON writes v to the command's output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newProductTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product-types",
		Short: "List the product types of the configured partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			productTypes, err := a.client.GetProductTypes(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, productTypes)
		},
	}
}

func newDevicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the supported devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := a.client.GetDevices(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, devices)
		},
	}
}

func newFiltersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the product search filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := a.client.GetFilters(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, filters)
		},
	}
}

func newFilterOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filter-options NAME",
		Short: "Print the options of one filter as the catalog service sends them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := a.client.GetFilterOptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, options)
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	var rawParams []string

	cmd := &cobra.Command{
		Use:   "products TYPE",
		Short: "Search the products of a product type",
		Example: "  caseablectl products smartphone-hard-case --param device=apple-iphone-5 " +
			"--param artist=a --param artist=b",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}

			products, err := a.client.GetProducts(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		},
	}

	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "search filter as name=value, repeatable")
	return cmd
}

// parseParams turns name=value pairs into search parameters. Repeating a
// name adds a value.
func parseParams(raw []string) (url.Values, error) {
	params := url.Values{}
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q, expected name=value", p)
		}
		params.Add(name, value)
	}
	return params, nil
}

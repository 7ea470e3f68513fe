package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"caseable-catalog/internal/model"

	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place, inspect and update orders",
	}
	cmd.AddCommand(newOrdersGetCmd(a), newOrdersPlaceCmd(a), newOrdersUpdateCmd(a))
	return cmd
}

func newOrdersGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID...",
		Short: "Print the status of one or more orders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := a.client.GetOrders(cmd.Context(), args, a.cfg.Orders.Credentials())
			if err != nil {
				return err
			}
			return printJSON(cmd, statuses)
		},
	}
}

func newOrdersPlaceCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place the order described by a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readOrderRequest(cmd, file)
			if err != nil {
				return err
			}

			status, err := a.client.PlaceOrder(cmd.Context(), req, a.cfg.Orders.Credentials())
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", `order request JSON file, "-" for stdin`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newOrdersUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "update ID STATUS",
		Short:     "Mark an order as paid or cancelled",
		Args:      cobra.ExactArgs(2),
		ValidArgs: model.UpdatableStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client.UpdateOrder(cmd.Context(), args[0], args[1], a.cfg.Orders.Credentials())
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}
}

func readOrderRequest(cmd *cobra.Command, file string) (*model.OrderRequest, error) {
	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open order file: %w", err)
		}
		defer f.Close()
		r = f
	}

	req := model.NewOrderRequest()
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode order file: %w", err)
	}
	return &req, nil
}

package main

import (
	"fmt"

	"caseable-catalog/internal/snapshot"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export catalog snapshots",
	}
	cmd.AddCommand(newSnapshotTakeCmd(a), newSnapshotShowCmd(a))
	return cmd
}

type snapshotFlags struct {
	dir      string
	s3Bucket string
	s3Region string
	s3Prefix string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "local snapshot directory (env SNAPSHOT_DIR)")
	cmd.Flags().StringVar(&f.s3Bucket, "s3-bucket", "", "also store snapshots in this S3 bucket")
	cmd.Flags().StringVar(&f.s3Region, "s3-region", "us-east-1", "region of the S3 bucket")
	cmd.Flags().StringVar(&f.s3Prefix, "s3-prefix", "snapshots/", "key prefix within the S3 bucket")
}

// store returns the local store, mirrored to S3 when a bucket is given.
func (f *snapshotFlags) store(cmd *cobra.Command, a *app) (snapshot.Store, error) {
	dir := f.dir
	if dir == "" {
		dir = a.cfg.Snapshot.Dir
	}
	fileStore := snapshot.NewFileStore(dir, a.logger)

	if f.s3Bucket == "" {
		return fileStore, nil
	}

	s3Store, err := snapshot.NewS3Store(cmd.Context(), f.s3Bucket, f.s3Region, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create S3 store: %w", err)
	}
	return snapshot.NewFallbackStore(s3Store, fileStore, f.s3Prefix, true, a.logger), nil
}

func newSnapshotTakeCmd(a *app) *cobra.Command {
	var flags snapshotFlags

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Fetch product types, devices and filters and save them as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.store(cmd, a)
			if err != nil {
				return err
			}

			snap, err := snapshot.Take(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			key := snapshot.Key(snap)
			if err := store.Save(cmd.Context(), key, snap); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func newSnapshotShowCmd(a *app) *cobra.Command {
	var flags snapshotFlags

	cmd := &cobra.Command{
		Use:         "show KEY",
		Short:       "Print a saved snapshot",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.store(cmd, a)
			if err != nil {
				return err
			}

			snap, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, snap)
		},
	}

	flags.register(cmd)
	return cmd
}

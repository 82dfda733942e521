package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/actnexus/internal/core/model"
)

func newQualifyCmd(opts *globalOptions) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "qualify",
		Short: "Write the qualification paragraph of one client profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.ClientProfile
			if err := readJSON(profilePath, &p); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := opts.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			text, err := a.Service.Qualify(ctx, p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "JSON file with the client profile")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/actnexus/internal/core/model"
)

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var minutePath, profilesPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a minute against client profiles and print the report as JSON",
		Long: `Reads the minute text and a JSON array of client profiles
({"nome": ..., "dadosAdicionais": [{"label": ..., "value": ...}]}) and prints
the reconciliation report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minute, err := os.ReadFile(minutePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", minutePath, err)
			}
			profiles, err := readProfiles(profilesPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := opts.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			report, err := a.Service.Verify(ctx, model.ReconciliationRequest{
				MinuteText:     string(minute),
				ClientProfiles: profiles,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&minutePath, "minute", "", "file with the minute text")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "JSON file with the client profiles")
	_ = cmd.MarkFlagRequired("minute")
	_ = cmd.MarkFlagRequired("profiles")
	return cmd
}

// readProfiles accepts either a bare array or a full request object.
func readProfiles(path string) ([]model.ClientProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)

	var profiles []model.ClientProfile
	if len(data) > 0 && data[0] == '{' {
		var req model.ReconciliationRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return req.ClientProfiles, nil
	}
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return profiles, nil
}

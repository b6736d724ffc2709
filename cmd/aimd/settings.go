package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadSettings(config)
			if err != nil {
				return err
			}
			data, err := store.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&config, "config", "c", "", "Settings YAML file")
	return cmd
}

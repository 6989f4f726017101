package main

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hukukrehberi/calc-engine/api"
	"github.com/hukukrehberi/calc-engine/factory"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List jurisdiction presets",
		Long:  `List the built-in presets and those found in presets.dir, oldest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			catalog, err := factory.LoadCatalog(cfg.Presets.Dir)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range catalog.List() {
				keys := make([]string, 0, len(p.Values))
				for k := range p.Values {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				values := make([]string, len(keys))
				for i, k := range keys {
					values[i] = k + "=" + p.Values[k].String()
				}
				fmt.Fprintf(w, "%-12s %s  %s  %s\n",
					p.ID, p.EffectiveFrom.Format("2006-01-02"), p.Name, strings.Join(values, ", "))
			}
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for auth.admin_password_hash",
		Long: `Print a bcrypt hash of PASSWORD. Without an argument the password is
read from the first line of stdin, which keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := api.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keystroke/internal/store"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "List stored preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference (" + strings.Join(store.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE:  runPrefsSetCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove all stored preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsResetCmd,
	})
	return cmd
}

func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

func runPrefsListCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		stored, err := st.All(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read preferences: %w", err)
		}
		for _, key := range store.Keys() {
			value, ok := stored[key]
			if !ok {
				value = "(unset)"
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	})
}

func runPrefsSetCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		if err := st.Set(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", args[0], err)
		}
		return nil
	})
}

func runPrefsResetCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		if err := st.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear preferences: %w", err)
		}
		return nil
	})
}

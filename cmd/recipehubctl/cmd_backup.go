package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/recipehub/recipehub-server/internal/backup"
)

func newBackupCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, validate and restore backup archives",
	}

	cmd.AddCommand(
		newBackupCreateCmd(global),
		newBackupListCmd(global),
		newBackupValidateCmd(global),
		newBackupRestoreCmd(global),
	)
	return cmd
}

func newBackupCreateCmd(global *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write every user, book, recipe and version to a zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.backups.Create(commandContext(cmd), output)
			if err != nil {
				return err
			}

			c := result.Counts
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"Backup written to %s (%d users, %d books, %d recipes, %d versions)\nsha256 %s\n",
				result.Path, c.Users, c.Books, c.Recipes, c.Versions, result.Checksum)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive path (default: <data-path>/backups/backup-<timestamp>.recipehub.zip)")
	return cmd
}

func newBackupListCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archives in the backup directory, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			backups, err := a.backups.List(commandContext(cmd))
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No backups found")
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSIZE\tCREATED")
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%d\t%s\n", b.ID, b.Size, b.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newBackupValidateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <archive>",
		Short: "Check an archive without restoring it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.backups.Validate(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range result.Warnings {
				fmt.Fprintln(out, "warning:", w)
			}
			if !result.Valid {
				for _, e := range result.Errors {
					fmt.Fprintln(out, "error:", e)
				}
				return fmt.Errorf("%s is not a valid backup", args[0])
			}

			c := result.Manifest.Counts
			_, err = fmt.Fprintf(out, "Valid backup from %s: %d users, %d books, %d recipes, %d versions\n",
				result.Manifest.CreatedAt.Format(time.RFC3339), c.Users, c.Books, c.Recipes, c.Versions)
			return err
		},
	}
}

func newBackupRestoreCmd(global *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "restore <archive>",
		Short: "Merge an archive into the database, skipping records that already exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.backups.Restore(commandContext(cmd), args[0], backup.RestoreOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tIMPORTED\tSKIPPED")
			for _, name := range []string{"users", "books", "recipes", "versions"} {
				fmt.Fprintf(w, "%s\t%d\t%d\n", name, result.Imported[name], result.Skipped[name])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, e := range result.Errors {
				fmt.Fprintf(out, "error: %s %s: %s\n", e.EntityType, e.EntityID, e.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("restore finished with %d errors", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read the archive and report counts without writing")
	return cmd
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igm/organizer/internal/export"
	"github.com/igm/organizer/internal/storage"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}

		if err := store.Add(entryTitle, entryDescription, entryDate); err != nil {
			return fmt.Errorf("adding entry: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entry added at index %d\n", store.Len()-1)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the entry at index",
	Long:  "Remove the entry at index. Later entries move down by one.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		_, store, err := setup()
		if err != nil {
			return err
		}

		if err := store.RemoveAt(index); err != nil {
			return fmt.Errorf("removing entry: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Entry removed")
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit the entry at index",
	Long:  "Edit the entry at index. Fields whose flag is not given keep their value.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		_, store, err := setup()
		if err != nil {
			return err
		}

		if !store.IsValidIndex(index) {
			return fmt.Errorf("editing entry: %w: %d", storage.ErrIndexOutOfRange, index)
		}

		current := store.Entries()[index]
		flags := cmd.Flags()
		if flags.Changed("title") {
			current.Title = entryTitle
		}
		if flags.Changed("description") {
			current.Description = entryDescription
		}
		if flags.Changed("date") {
			current.Date = entryDate
		}

		if err := store.EditAt(index, current.Title, current.Description, current.Date); err != nil {
			return fmt.Errorf("editing entry: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Entry changed")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}

		entries, err := store.List()
		if errors.Is(err, storage.ErrEmpty) {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
			return nil
		}

		printEntries(cmd, entries)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search entries",
	Long: `List entries whose title, description or date contains query
(case-sensitive). Words are joined with single spaces. An empty query
matches every entry.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}

		entries, err := store.Search(searchQuery(args))
		switch {
		case errors.Is(err, storage.ErrEmpty):
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
		case errors.Is(err, storage.ErrNoMatches):
			fmt.Fprintln(cmd.OutOrStdout(), "No matching entries found")
		default:
			printEntries(cmd, entries)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export entries to a file",
	Long: `Export entries to a file. The format comes from --format, then the file
extension (.txt, .yaml/.yml, .xlsx), then export.format from the config.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := setup()
		if err != nil {
			return err
		}

		format, err := pickFormat(args[0], cfg.Export.Format)
		if err != nil {
			return err
		}

		if err := export.ToFile(store, args[0], format); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s (%s)\n", store.Len(), args[0], format)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Append entries from a text, yaml or xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}

		format, err := pickFormat(args[0], string(export.FormatText))
		if err != nil {
			return err
		}

		entries, err := export.Read(args[0], format)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		added := 0
		for i, e := range entries {
			err := store.Add(e.Title, e.Description, e.Date)
			if errors.Is(err, storage.ErrInvalidField) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipping entry %d: %v\n", i, err)
				continue
			}
			if err != nil {
				return fmt.Errorf("importing entry %d: %w", i, err)
			}
			added++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d entries\n", added, len(entries))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			fmt.Fprint(cmd.OutOrStdout(), "Remove all entries? [y/N]: ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		_, store, err := setup()
		if err != nil {
			return err
		}

		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing entries: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All entries removed")
		return nil
	},
}

// Flags
var (
	entryTitle       string
	entryDescription string
	entryDate        string
	exportFormat     string
	clearYes         bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&entryTitle, "title", "t", "", "entry title")
		c.Flags().StringVarP(&entryDescription, "description", "D", "", "entry description")
		c.Flags().StringVar(&entryDate, "date", "", "entry date, free-form (e.g. DD/MM/YYYY)")
	}
	_ = addCmd.MarkFlagRequired("title")

	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVarP(&exportFormat, "format", "f", "", "file format: text, yaml or xlsx")
	}

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
}

// pickFormat resolves --format, then the file extension, then fallback
func pickFormat(path, fallback string) (export.Format, error) {
	if exportFormat != "" {
		return export.ParseFormat(exportFormat)
	}
	if filepath.Ext(path) != "" {
		return export.FormatFromPath(path), nil
	}
	return export.ParseFormat(fallback)
}

func searchQuery(args []string) string {
	return strings.Join(args, " ")
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	return index, nil
}

func printEntries(cmd *cobra.Command, entries []storage.Indexed) {
	out := cmd.OutOrStdout()
	for _, ie := range entries {
		fmt.Fprintf(out, "Index: %d, Title: %s, Description: %s, Date: %s\n",
			ie.Index, ie.Entry.Title, ie.Entry.Description, ie.Entry.Date)
	}
}

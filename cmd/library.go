// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/internal/config"
	"github.com/Thermoquad/zephyr/internal/library"
	"github.com/Thermoquad/zephyr/pkg/soleus"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the stored code library",
	Long: `Manage the local library of named IR codes.

Codes land in the library either from captures (capture --save) or by adding
frame hex directly. The library is a SQLite database in the zephyr config
directory by default; override the path with library.path in the config file.`,
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <name> <frame-hex>",
	Short: "Add a code by name and frame hex",
	Long: `Add a frame to the library under a name.

Example:
  zephyr library add power-off "19 00 13 00 4F 00 00 00 62"

The frame must decode as a valid Soleus frame; the command description and
Pronto export are derived automatically.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLibraryAdd,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored codes",
	RunE:  runLibraryList,
}

var libraryExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a stored code as Pronto hex",
	Long: `Print the Pronto hex for a stored code, suitable for pasting into
universal remote software or other IR tools.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryExport,
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a stored code",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRm,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryRmCmd)
}

// libraryPath resolves the library database location: config value if set,
// otherwise library.db in the config directory
func libraryPath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Library.Path != "" {
		return cfg.Library.Path, nil
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "library.db"), nil
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	frameHex := strings.Join(args[1:], " ")

	frame, err := soleus.ParseFrame(frameHex)
	if err != nil {
		return err
	}

	code, err := library.NewCode(name, frame, 0)
	if err != nil {
		return err
	}

	repo, closeDB, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Upsert(code); err != nil {
		return err
	}

	fmt.Printf("Added %s: %s\n", code.Name, code.Command)
	return nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	codes, err := repo.List()
	if err != nil {
		return err
	}

	if len(codes) == 0 {
		fmt.Println("Library is empty")
		return nil
	}

	fmt.Printf("%-20s %-28s %s\n", "NAME", "FRAME", "COMMAND")
	for _, code := range codes {
		fmt.Printf("%-20s %-28s %s\n", code.Name, code.Frame, code.Command)
	}
	return nil
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	code, err := repo.GetByName(args[0])
	if err != nil {
		return err
	}

	fmt.Println(code.Pronto)
	return nil
}

func runLibraryRm(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Delete(args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}

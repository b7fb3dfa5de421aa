/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/internal/iodb"
	"github.com/gnames/gnlineage/internal/iofs"
	"github.com/gnames/gnlineage/internal/ioschema"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create taxonomy store schema",
		Long: `Create the tables of the taxonomy store.

For PostgreSQL this command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates nodes and links tables using GORM AutoMigrate
  4. Sets "C" collation for the name column

For SQLite the store file is created in the data directory (or at
database.sqlite_path) with the same tables.

Use --force to skip confirmation and drop existing tables.

Examples:
  gnlineage create
  gnlineage create --force
  gnlineage create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd, args, forceCreate)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(
	_ *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()
	if cfg.Database.Backend == config.BackendSQLite {
		return createSQLite(ctx, force)
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s</em>", storeLocation(cfg))

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			ok, err := confirm()
			if err != nil {
				return err
			}
			if !ok {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		gn.Info("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)
	gn.Info("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx); err != nil {
		return err
	}

	printNextSteps()
	return nil
}

func createSQLite(ctx context.Context, force bool) error {
	path := cfg.SQLiteFile()
	_, err := os.Stat(path)
	exists := err == nil

	if exists && !force {
		gn.Warn("\nWarning: SQLite store <em>%s</em> already exists.", path)
		gn.Warn("Creating schema will remove ALL stored data.")
		ok, err := confirm()
		if err != nil {
			return err
		}
		if !ok {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	if exists {
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			err := os.Remove(p)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return iofs.WriteFileError(p, err)
			}
		}
		gn.Info("Removed existing store <em>%s</em>", path)
	}

	// connecting to a new SQLite file creates its tables
	s, err := openStore(ctx, nil)
	if err != nil {
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}

	printNextSteps()
	return nil
}

func confirm() (bool, error) {
	fmt.Print("\nDo you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		gn.Warn("Failed to read user input")
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}

func printNextSteps() {
	gn.Info("\nTaxonomy store schema creation complete!")
	gn.Info(`Next steps:
	 - Run '<em>gnlineage ingest all <taxdump dir></em>' to import data
	 - Run '<em>gnlineage lineage <taxon id></em>' to query lineages`)
}

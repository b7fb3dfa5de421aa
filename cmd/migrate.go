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
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/internal/iodb"
	"github.com/gnames/gnlineage/internal/ioschema"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate taxonomy store schema to latest version",
		Long: `Migrate updates the taxonomy store schema to the latest version.

This command:
  1. Connects to the store using configuration settings
  2. Checks if the schema exists
  3. Runs GORM AutoMigrate (PostgreSQL) or table DDL (SQLite)
  4. Preserves existing data (non-destructive)

Use this command after updating gnlineage to get schema changes.

Examples:
  gnlineage migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return migrateCmd
}

func runMigrate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if cfg.Database.Backend == config.BackendSQLite {
		// opening a SQLite store brings its tables up to date
		s, err := openStore(ctx, nil)
		if err != nil {
			return err
		}
		gn.Info("Schema is now up to date.")
		return s.Close()
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

	if !hasTables {
		gn.Warn(`Warning: Database appears to be empty.
	Run 'gnlineage create' first to initialize the schema.`)
		return nil
	}

	sm := ioschema.NewManager(op)
	gn.Info("Migrating schema to latest version...")
	if err := sm.Migrate(ctx); err != nil {
		return err
	}

	gn.Info("Schema is now up to date.")
	return nil
}

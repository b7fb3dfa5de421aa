package cmd

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/internal/iometrics"
	"github.com/gnames/gnlineage/internal/iostore"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/taxdb"
)

// openStore connects to the configured taxonomy store. The caller must
// close the store.
func openStore(
	ctx context.Context,
	m *iometrics.Metrics,
) (taxdb.Store, error) {
	var opts []iostore.Option
	if m != nil {
		opts = append(opts, iostore.OptMetrics(m))
	}
	s, err := iostore.Connect(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	gn.Info("Connected to taxonomy store: <em>%s</em>", storeLocation(cfg))
	return s, nil
}

// storeLocation describes where the store of the configuration lives.
func storeLocation(c *config.Config) string {
	if c.Database.Backend == config.BackendSQLite {
		return c.SQLiteFile()
	}
	d := c.Database
	return fmt.Sprintf("%s@%s:%d/%s", d.User, d.Host, d.Port, d.Database)
}

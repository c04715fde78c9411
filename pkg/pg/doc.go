// Package pg wires PostgreSQL through pgx/v5: a retrying pool constructor,
// goose migrations applied from an fs.FS, a readiness check and helpers that
// classify pgx errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//	    return err
//	}
package pg

// Package metadata is the client's local key/value table ("metadata") in
// SQLite. The credential store keeps its three session entries here.
//
// The repository is bound to a dbx.DBTX, so the same code runs against a
// *sql.DB or inside a dbx.WithTx transaction:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := metadata.NewSQLiteRepository(tx)
//	    if err := repo.Set(ctx, "access_token", a); err != nil {
//	        return err
//	    }
//	    return repo.Set(ctx, "refresh_token", r)
//	})
package metadata

package watchdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/sharktamer/gtsnotifier/pkg/pgutil/migrations"
	"github.com/sharktamer/gtsnotifier/pkg/watchstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating watch_entries table...")
		if err := mghelper.CreateSchema(ctx, db, &watchstore.EntryDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &watchstore.EntryDao{}, "channel")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping watch_entries table...")
		if err := mghelper.DropModelIndexes(ctx, db, &watchstore.EntryDao{}, "channel"); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &watchstore.EntryDao{})
	})
}

package watchstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// EntryDao is a data access object that maps directly to the 'watch_entries' table in PostgreSQL.
type EntryDao struct {
	bun.BaseModel `bun:"table:watch_entries,alias:we"`
	ProfileID     string    `bun:"profile_id,pk,type:varchar(64)"`
	AccountID     string    `bun:"account_id,notnull,type:varchar(64)"`
	SaveDataID    string    `bun:"savedata_id,notnull,type:varchar(64)"`
	Destination   string    `bun:"destination,notnull,type:varchar(255)"`
	Channel       string    `bun:"channel,notnull,type:varchar(16)"`
	Watermark     string    `bun:"watermark,notnull,default:''"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// toEntryDao converts a watch.Entry to EntryDao.
func toEntryDao(entry *watch.Entry) *EntryDao {
	return &EntryDao{
		ProfileID:   entry.ProfileID,
		AccountID:   entry.AccountID,
		SaveDataID:  entry.SaveDataID,
		Destination: entry.Destination,
		Channel:     string(entry.Channel),
		Watermark:   entry.Watermark,
	}
}

// toEntry converts an EntryDao to watch.Entry.
func toEntry(dao *EntryDao) *watch.Entry {
	return &watch.Entry{
		ProfileID:   dao.ProfileID,
		AccountID:   dao.AccountID,
		SaveDataID:  dao.SaveDataID,
		Destination: dao.Destination,
		Channel:     watch.Channel(dao.Channel),
		Watermark:   dao.Watermark,
		CreatedAt:   dao.CreatedAt,
		UpdatedAt:   dao.UpdatedAt,
	}
}

package dataapi

import (
	"context"

	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/errs"
	"github.com/koustreak/tierline/internal/items"
	"github.com/koustreak/tierline/internal/logger"
)

// CheckStore pings db and confirms the items table behind s exists. It only logs:
// the tier starts regardless, /healthz stays independent of the store, and
// the pool fills once the store becomes reachable.
func CheckStore(ctx context.Context, db database.DB, s *items.Store, log *logger.Logger) bool {
	if err := db.Ping(ctx); err != nil {
		log.WarnWith("store not reachable at startup", err, map[string]interface{}{
			"kind": errs.KindOf(err).String(),
		})
		return false
	}

	ok, err := s.Ready(ctx)
	if err != nil {
		log.WarnWith("could not verify items table", err, nil)
		return false
	}
	if !ok {
		log.Warnf("table %q does not exist; /api/data will fail until it is created", items.Table)
		return false
	}

	log.Info("store reachable, items table present")
	return true
}

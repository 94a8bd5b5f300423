package profilerepo

import (
	"testing"

	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/testutil"
	profilerepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

func TestContract_PostgresProfileRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunProfileRepo(t, func(t *testing.T) (profilerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}

package controller

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"DoshiiWithPos/internal/doshiiapi"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/pkg/logging"
)

// SyncResult reports the outcome of one mirror sync. Failed items never
// stop the loop; their reasons are joined into Reason.
type SyncResult struct {
	Synced int
	Failed int
	Reason string
}

func (r *SyncResult) Ok() bool {
	return r.Failed == 0
}

// SyncController replays platform state onto the POS after every socket
// (re)connection so that events missed while disconnected are not lost.
type SyncController struct {
	api          doshiiapi.DOSHIIAPI
	ordering     *OrderingController
	reservations pos.Reservations
	rewards      pos.Rewards
	apps         pos.Apps
}

func NewSyncController(api doshiiapi.DOSHIIAPI, ordering *OrderingController,
	reservations pos.Reservations, rewards pos.Rewards, apps pos.Apps) *SyncController {
	return &SyncController{
		api:          api,
		ordering:     ordering,
		reservations: reservations,
		rewards:      rewards,
		apps:         apps,
	}
}

// RefreshFromPlatform runs the four resync components concurrently. Each
// component isolates its own failure; one panicking or failing sync never
// aborts the others, so every goroutine reports nil to the group.
func (c *SyncController) RefreshFromPlatform() {
	logger := logging.GetLogger()
	logger.Info("Start RefreshFromPlatform")
	defer logger.Info("End RefreshFromPlatform")

	var g errgroup.Group

	g.Go(func() error {
		defer recoverSync("order refresh")
		if err := c.ordering.RefreshAllOrders(); err != nil {
			logger.Errorf("order refresh failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		defer recoverSync("booking sync")
		if result, err := c.SyncBookings(); err != nil {
			logger.Errorf("booking sync failed: %v", err)
		} else if !result.Ok() {
			logger.Errorf("booking sync finished with failures: %s", result.Reason)
		}
		return nil
	})
	g.Go(func() error {
		defer recoverSync("member sync")
		if result, err := c.SyncMembers(); err != nil {
			logger.Errorf("member sync failed: %v", err)
		} else if !result.Ok() {
			logger.Errorf("member sync finished with failures: %s", result.Reason)
		}
		return nil
	})
	g.Go(func() error {
		defer recoverSync("app sync")
		if result, err := c.SyncApps(); err != nil {
			logger.Errorf("app sync failed: %v", err)
		} else if !result.Ok() {
			logger.Errorf("app sync finished with failures: %s", result.Reason)
		}
		return nil
	})

	_ = g.Wait()
}

func recoverSync(name string) {
	if r := recover(); r != nil {
		logging.GetLogger().Errorf("recovered panic in %s: %v", name, r)
	}
}

// SyncBookings reconciles POS bookings against the platform's
// authoritative list: delete what only the POS has, update what differs,
// create what only the platform has.
func (c *SyncController) SyncBookings() (*SyncResult, error) {
	logger := logging.GetLogger()
	logger.Info("Start SyncBookings")
	defer logger.Info("End SyncBookings")

	platformBookings, err := c.api.BookingsGet()
	if err != nil {
		return nil, errors.Wrap(err, "failed in BookingsGet()")
	}

	posBookings, err := c.reservations.GetBookingsFromPos()
	if err != nil {
		return nil, errors.Wrap(err, "failed in GetBookingsFromPos()")
	}

	result := &SyncResult{}
	var reasons []string

	platformById := make(map[string]int, len(platformBookings))
	for i, booking := range platformBookings {
		platformById[booking.Id] = i
	}

	for _, posBooking := range posBookings {
		if _, found := platformById[posBooking.Id]; found {
			continue
		}
		if err := c.reservations.DeleteBookingOnPos(posBooking); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("delete booking %s: %v", posBooking.Id, err))
			continue
		}
		result.Synced++
	}

	posById := make(map[string]int, len(posBookings))
	for i, booking := range posBookings {
		posById[booking.Id] = i
	}

	for _, platformBooking := range platformBookings {
		i, found := posById[platformBooking.Id]
		if found {
			if reflect.DeepEqual(platformBooking, posBookings[i]) {
				continue
			}
			if err := c.reservations.UpdateBookingOnPos(platformBooking); err != nil {
				result.Failed++
				reasons = append(reasons, fmt.Sprintf("update booking %s: %v", platformBooking.Id, err))
				continue
			}
			result.Synced++
			continue
		}
		if err := c.reservations.CreateBookingOnPos(platformBooking); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("create booking %s: %v", platformBooking.Id, err))
			continue
		}
		result.Synced++
	}

	result.Reason = strings.Join(reasons, "; ")
	return result, nil
}

// SyncMembers reconciles POS members against the platform list. Same
// semantics as SyncBookings.
func (c *SyncController) SyncMembers() (*SyncResult, error) {
	logger := logging.GetLogger()
	logger.Info("Start SyncMembers")
	defer logger.Info("End SyncMembers")

	platformMembers, err := c.api.MembersGet()
	if err != nil {
		return nil, errors.Wrap(err, "failed in MembersGet()")
	}

	posMembers, err := c.rewards.GetMembersFromPos()
	if err != nil {
		return nil, errors.Wrap(err, "failed in GetMembersFromPos()")
	}

	result := &SyncResult{}
	var reasons []string

	platformById := make(map[string]int, len(platformMembers))
	for i, member := range platformMembers {
		platformById[member.Id] = i
	}

	for _, posMember := range posMembers {
		if _, found := platformById[posMember.Id]; found {
			continue
		}
		if err := c.rewards.DeleteMemberOnPos(posMember); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("delete member %s: %v", posMember.Id, err))
			continue
		}
		result.Synced++
	}

	posById := make(map[string]int, len(posMembers))
	for i, member := range posMembers {
		posById[member.Id] = i
	}

	for _, platformMember := range platformMembers {
		i, found := posById[platformMember.Id]
		if found {
			if reflect.DeepEqual(platformMember, posMembers[i]) {
				continue
			}
			if err := c.rewards.UpdateMemberOnPos(platformMember); err != nil {
				result.Failed++
				reasons = append(reasons, fmt.Sprintf("update member %s: %v", platformMember.Id, err))
				continue
			}
			result.Synced++
			continue
		}
		if err := c.rewards.CreateMemberOnPos(platformMember); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("create member %s: %v", platformMember.Id, err))
			continue
		}
		result.Synced++
	}

	result.Reason = strings.Join(reasons, "; ")
	return result, nil
}

// SyncApps reconciles POS partner apps against the platform list. Same
// semantics as SyncBookings.
func (c *SyncController) SyncApps() (*SyncResult, error) {
	logger := logging.GetLogger()
	logger.Info("Start SyncApps")
	defer logger.Info("End SyncApps")

	platformApps, err := c.api.AppsGet()
	if err != nil {
		return nil, errors.Wrap(err, "failed in AppsGet()")
	}

	posApps, err := c.apps.GetAppsFromPos()
	if err != nil {
		return nil, errors.Wrap(err, "failed in GetAppsFromPos()")
	}

	result := &SyncResult{}
	var reasons []string

	platformById := make(map[string]int, len(platformApps))
	for i, app := range platformApps {
		platformById[app.Id] = i
	}

	for _, posApp := range posApps {
		if _, found := platformById[posApp.Id]; found {
			continue
		}
		if err := c.apps.DeleteAppOnPos(posApp); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("delete app %s: %v", posApp.Id, err))
			continue
		}
		result.Synced++
	}

	posById := make(map[string]int, len(posApps))
	for i, app := range posApps {
		posById[app.Id] = i
	}

	for _, platformApp := range platformApps {
		i, found := posById[platformApp.Id]
		if found {
			if reflect.DeepEqual(platformApp, posApps[i]) {
				continue
			}
			if err := c.apps.UpdateAppOnPos(platformApp); err != nil {
				result.Failed++
				reasons = append(reasons, fmt.Sprintf("update app %s: %v", platformApp.Id, err))
				continue
			}
			result.Synced++
			continue
		}
		if err := c.apps.CreateAppOnPos(platformApp); err != nil {
			result.Failed++
			reasons = append(reasons, fmt.Sprintf("create app %s: %v", platformApp.Id, err))
			continue
		}
		result.Synced++
	}

	result.Reason = strings.Join(reasons, "; ")
	return result, nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/lionbidapp/lionbid-server/internal/auth"
	"github.com/lionbidapp/lionbid-server/internal/config"
	"github.com/lionbidapp/lionbid-server/internal/logger"
	"github.com/lionbidapp/lionbid-server/internal/service"
)

// ProvideLionService provides the catalogue service.
func ProvideLionService(i do.Injector) (*service.LionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLionService(storeHandle.Store, log.Logger), nil
}

// ProvideBidService provides the bidding service.
func ProvideBidService(i do.Injector) (*service.BidService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBidService(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the admin authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(cfg.Admin, tokenService, log.Logger), nil
}

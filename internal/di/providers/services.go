package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/logger"
	"github.com/promptozer/promptozer/internal/service"
)

// ProvideResolver provides the identity resolver over the server database.
func ProvideResolver(i do.Injector) (*identity.Resolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return identity.NewResolver(storeHandle.Repository, log.Logger), nil
}

// ProvideAuthService provides the login service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	resolver := do.MustInvoke[*identity.Resolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(resolver, log.Logger), nil
}

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPromptService(storeHandle.Repository, log.Logger), nil
}

package hooks

import (
	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/store"
)

// Hooks groups one resource hook per entity.
type Hooks struct {
	Clients   *Resource[models.Client]
	Personnel *Resource[models.Personnel]
	Services  *Resource[models.Service]
	Items     *Resource[models.Item]
	Payments  *Resource[models.Payment]
	Visits    *Resource[models.Visit]
	Users     *Resource[models.User]
}

func New(backend Backend, s *store.Store) *Hooks {
	return &Hooks{
		Clients: NewResource(Definition[models.Client]{
			Kind: models.KindClient, Path: "clients/", DeleteParam: "id",
			Read:    (*store.Store).Clients,
			Publish: (*store.Store).SetClients,
		}, backend, s),
		Personnel: NewResource(Definition[models.Personnel]{
			Kind: models.KindPersonnel, Path: "personel/", DeleteParam: "personel_id",
			Read:    (*store.Store).Personnel,
			Publish: (*store.Store).SetPersonnel,
		}, backend, s),
		Services: NewResource(Definition[models.Service]{
			Kind: models.KindService, Path: "services/", DeleteParam: "id",
			Read:    (*store.Store).Services,
			Publish: (*store.Store).SetServices,
		}, backend, s),
		Items: NewResource(Definition[models.Item]{
			Kind: models.KindItem, Path: "items/", DeleteParam: "id",
			Read:    (*store.Store).Items,
			Publish: (*store.Store).SetItems,
		}, backend, s),
		Payments: NewResource(Definition[models.Payment]{
			Kind: models.KindPayment, Path: "payments/", DeleteParam: "id",
			Read:    (*store.Store).Payments,
			Publish: (*store.Store).SetPayments,
		}, backend, s),
		Visits: NewResource(Definition[models.Visit]{
			Kind: models.KindVisit, Path: "visit/", DeleteParam: "id",
			Read:    (*store.Store).Visits,
			Publish: (*store.Store).SetVisits,
		}, backend, s),
		Users: NewResource(Definition[models.User]{
			Kind: models.KindUser, Path: "user/", DeleteParam: "id",
			Read:    (*store.Store).Users,
			Publish: (*store.Store).SetUsers,
		}, backend, s),
	}
}

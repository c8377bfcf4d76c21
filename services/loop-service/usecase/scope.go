package usecase

import (
	"context"
	"slices"

	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// representativeOf returns the representative record of a Representante caller
func representativeOf(ctx context.Context, store repository.Store, caller model.Caller) (model.Representative, error) {
	if caller.Role != model.RoleRepresentative {
		return model.Representative{}, domain.ErrForbidden
	}
	rep, ok := store.FindRepresentativeByUserID(ctx, caller.UserID)
	if !ok {
		return model.Representative{}, domain.ErrProfileNotFound
	}
	return rep, nil
}

// clientOf returns the client record of a Cliente caller
func clientOf(ctx context.Context, store repository.Store, caller model.Caller) (model.Client, error) {
	if caller.Role != model.RoleClient {
		return model.Client{}, domain.ErrForbidden
	}
	client, ok := store.FindClientByUserID(ctx, caller.UserID)
	if !ok {
		return model.Client{}, domain.ErrProfileNotFound
	}
	return client, nil
}

// salesOf returns a predicate matching the sales of client. The client ID decides when the
// sale carries one. Older sales holding only a name are matched by name, and only while no
// other client has that name.
func salesOf(ctx context.Context, store repository.Store, client model.Client) func(model.Sale) bool {
	nameIsUnique := !slices.ContainsFunc(store.Clients().All(ctx), func(c model.Client) bool {
		return c.ID != client.ID && c.Name == client.Name
	})
	return func(sale model.Sale) bool {
		if sale.ClientID != nil {
			return *sale.ClientID == client.ID
		}
		return nameIsUnique && sale.ClientName == client.Name
	}
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

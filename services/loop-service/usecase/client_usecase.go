package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// ClientUseCase defines business operations on clients. Representatives see and change
// only the clients linked to them.
type ClientUseCase interface {
	Create(ctx context.Context, caller model.Caller, client model.Client) (model.Client, error)
	List(ctx context.Context, caller model.Caller) ([]model.Client, error)
	Get(ctx context.Context, caller model.Caller, id int64) (model.Client, error)
	Update(ctx context.Context, caller model.Caller, id int64, patch model.ClientPatch) (model.Client, error)
	Delete(ctx context.Context, caller model.Caller, id int64) error
	// ScoreLead asks the assistant to rate the client and stores the result
	ScoreLead(ctx context.Context, caller model.Caller, id int64) (model.Client, error)
	// Statement returns the sales of a Cliente caller
	Statement(ctx context.Context, caller model.Caller) (model.ClientStatement, error)
}

type clientUseCase struct {
	store     repository.Store
	generator repository.TextGenerator
	logger    logger.LoggerInterface
}

// NewClientUseCase creates a new instance of clientUseCase
func NewClientUseCase(store repository.Store, generator repository.TextGenerator, appLogger logger.LoggerInterface) ClientUseCase {
	return &clientUseCase{
		store:     store,
		generator: generator,
		logger:    appLogger,
	}
}

func (uc *clientUseCase) Create(ctx context.Context, caller model.Caller, client model.Client) (model.Client, error) {
	uc.logger.InfoContext(ctx, "Creating client in usecase", "name", client.Name, "callerRole", caller.Role)

	switch caller.Role {
	case model.RoleAdmin:
		if client.RepresentativeID != nil {
			if _, ok := uc.store.Representatives().Get(ctx, *client.RepresentativeID); !ok {
				uc.logger.WarnContext(ctx, "Representative not found for client", "repID", *client.RepresentativeID)
				return model.Client{}, domain.ErrRepresentativeNotFound
			}
		}
	case model.RoleRepresentative:
		rep, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return model.Client{}, err
		}
		client.RepresentativeID = &rep.ID
	default:
		return model.Client{}, domain.ErrForbidden
	}

	if client.Status == "" {
		client.Status = model.ClientLead
	}

	created := uc.store.Clients().Add(ctx, client)
	uc.logger.InfoContext(ctx, "Client created", "id", created.ID)
	return created, nil
}

func (uc *clientUseCase) List(ctx context.Context, caller model.Caller) ([]model.Client, error) {
	clients := uc.store.Clients().All(ctx)
	if caller.IsAdmin() {
		return clients, nil
	}

	rep, err := representativeOf(ctx, uc.store, caller)
	if err != nil {
		return nil, err
	}
	return filter(clients, func(c model.Client) bool {
		return c.RepresentativeID != nil && *c.RepresentativeID == rep.ID
	}), nil
}

func (uc *clientUseCase) Get(ctx context.Context, caller model.Caller, id int64) (model.Client, error) {
	client, ok := uc.store.Clients().Get(ctx, id)
	if !ok {
		uc.logger.WarnContext(ctx, "Client not found", "id", id)
		return model.Client{}, domain.ErrClientNotFound
	}
	if err := uc.authorize(ctx, caller, client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

// authorize lets admins through, representatives through for their own clients, and
// clients through for their own record.
func (uc *clientUseCase) authorize(ctx context.Context, caller model.Caller, client model.Client) error {
	switch caller.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleRepresentative:
		rep, err := representativeOf(ctx, uc.store, caller)
		if err != nil {
			return err
		}
		if client.RepresentativeID != nil && *client.RepresentativeID == rep.ID {
			return nil
		}
	case model.RoleClient:
		if client.UserID != nil && *client.UserID == caller.UserID {
			return nil
		}
	}
	uc.logger.WarnContext(ctx, "Client access denied", "id", client.ID, "userID", caller.UserID)
	return domain.ErrForbidden
}

func (uc *clientUseCase) Update(ctx context.Context, caller model.Caller, id int64, patch model.ClientPatch) (model.Client, error) {
	uc.logger.InfoContext(ctx, "Updating client in usecase", "id", id)

	if _, err := uc.Get(ctx, caller, id); err != nil {
		return model.Client{}, err
	}
	if !caller.IsAdmin() {
		// only an admin moves a client to another representative or login
		patch.RepresentativeID = nil
		patch.UserID = nil
	}
	if patch.RepresentativeID != nil {
		if _, ok := uc.store.Representatives().Get(ctx, *patch.RepresentativeID); !ok {
			uc.logger.WarnContext(ctx, "Representative not found for client", "repID", *patch.RepresentativeID)
			return model.Client{}, domain.ErrRepresentativeNotFound
		}
	}

	client, ok := uc.store.Clients().Update(ctx, id, patch)
	if !ok {
		return model.Client{}, domain.ErrClientNotFound
	}
	return client, nil
}

func (uc *clientUseCase) Delete(ctx context.Context, caller model.Caller, id int64) error {
	if caller.Role == model.RoleClient {
		return domain.ErrForbidden
	}
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return err
	}
	uc.store.Clients().Delete(ctx, id)
	uc.logger.InfoContext(ctx, "Client deleted", "id", id)
	return nil
}

const leadScorePrompt = `Você é um analista de crédito de uma administradora de consórcios.
Avalie o potencial de fechamento do lead abaixo com uma nota de 0 a 100.
Responda somente com JSON no formato {"score": <inteiro>, "justification": "<uma frase>"}.

Nome: %s
Plano de interesse: %s
Status: %s
Possui e-mail: %t
Possui documento: %t
Possui endereço: %t`

func (uc *clientUseCase) ScoreLead(ctx context.Context, caller model.Caller, id int64) (model.Client, error) {
	if caller.Role == model.RoleClient {
		return model.Client{}, domain.ErrForbidden
	}
	client, err := uc.Get(ctx, caller, id)
	if err != nil {
		return model.Client{}, err
	}

	uc.logger.InfoContext(ctx, "Scoring lead", "id", id)
	prompt := fmt.Sprintf(leadScorePrompt, client.Name, client.Plan, client.Status,
		client.Email != "", client.Document != "", client.Address != "")

	answer, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Lead scoring failed", "id", id, "error", err)
		return model.Client{}, unavailable(err)
	}

	score, err := parseLeadScore(answer)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Unreadable lead score", "id", id, "answer", answer, "error", err)
		return model.Client{}, domain.ErrAssistantUnavailable
	}

	// The client may have changed or vanished while the assistant was thinking; the score is
	// written with an ordinary patch either way.
	updated, ok := uc.store.Clients().Update(ctx, id, model.ClientPatch{
		LeadScore:         &score.Score,
		LeadJustification: &score.Justification,
	})
	if !ok {
		return model.Client{}, domain.ErrClientNotFound
	}
	uc.logger.InfoContext(ctx, "Lead scored", "id", id, "score", score.Score)
	return updated, nil
}

// parseLeadScore reads the JSON object in answer, tolerating surrounding prose or code fences
func parseLeadScore(answer string) (model.LeadScore, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end < start {
		return model.LeadScore{}, errors.New("no JSON object in answer")
	}

	var score model.LeadScore
	if err := json.Unmarshal([]byte(answer[start:end+1]), &score); err != nil {
		return model.LeadScore{}, err
	}
	score.Score = min(max(score.Score, 0), 100)
	return score, nil
}

func (uc *clientUseCase) Statement(ctx context.Context, caller model.Caller) (model.ClientStatement, error) {
	client, err := clientOf(ctx, uc.store, caller)
	if err != nil {
		return model.ClientStatement{}, err
	}

	sales := filter(uc.store.Sales().All(ctx), salesOf(ctx, uc.store, client))
	total := decimal.Zero
	for _, s := range sales {
		if s.Status == model.SaleApproved {
			total = total.Add(s.Value)
		}
	}

	return model.ClientStatement{
		Client:      client,
		Sales:       sales,
		TotalValue:  total,
		NextPayment: client.NextPayment,
	}, nil
}

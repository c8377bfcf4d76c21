package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"loop/services/loop-service/domain/model"
)

// DefaultContractTemplate is the template written by Seed
const DefaultContractTemplate = `CONTRATO DE ADESÃO A GRUPO DE CONSÓRCIO

Pelo presente instrumento, {{CLIENTE}} adere ao plano {{PLANO}}, com crédito de referência de {{VALOR}}.

Data da adesão: {{DATA}}
Representante responsável: {{REPRESENTANTE}}

O consorciado declara conhecer o regulamento do grupo, a taxa de administração e as condições de contemplação por sorteio ou lance.

_____________________________
Assinatura do consorciado`

// Seed writes the demo fixtures unless the seeded_v4 marker is present. Fixture tables are
// overwritten as a whole; the marker is written last and only when every table was stored,
// so a failed seed is retried on the next call.
//
// Processes sharing one substrate coordinate through the seed_lock key: only the process
// that claims it writes fixtures, and it releases the lock when done. A process that dies
// while holding the lock leaves it behind; delete the key by hand to seed again.
func (s *Store) Seed(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seeded, err := s.seeded(ctx); err != nil || seeded {
		return err
	}

	claimed, err := s.kv.SetIfAbsent(ctx, KeySeedLock, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to claim seed lock: %w", err)
	}
	if !claimed {
		s.logger.InfoContext(ctx, "Seed lock held by another process, skipping seed")
		return nil
	}
	defer func() {
		if delErr := s.kv.Delete(ctx, KeySeedLock); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to release seed lock", "error", delErr)
			err = errors.Join(err, fmt.Errorf("failed to release seed lock: %w", delErr))
		}
	}()

	// the previous holder may have finished between the first check and the claim
	if seeded, err := s.seeded(ctx); err != nil || seeded {
		return err
	}

	f, err := s.fixtures()
	if err != nil {
		return err
	}

	err = errors.Join(
		s.users.save(ctx, f.users),
		s.representatives.save(ctx, f.representatives),
		s.clients.save(ctx, f.clients),
		s.plans.save(ctx, f.plans),
		s.sales.save(ctx, f.sales),
		s.chats.save(ctx, f.chats),
		s.writeJSON(ctx, KeyContractTemplate, DefaultContractTemplate),
	)
	if err != nil {
		return fmt.Errorf("failed to write fixtures: %w", err)
	}
	if err := s.writeJSON(ctx, KeySeeded, true); err != nil {
		return fmt.Errorf("failed to write seed marker: %w", err)
	}

	s.logger.InfoContext(ctx, "Store seeded",
		"users", len(f.users), "representatives", len(f.representatives), "clients", len(f.clients),
		"plans", len(f.plans), "sales", len(f.sales), "chats", len(f.chats))
	return nil
}

func (s *Store) seeded(ctx context.Context) (bool, error) {
	_, seeded, err := s.kv.Get(ctx, KeySeeded)
	if err != nil {
		return false, fmt.Errorf("failed to read seed marker: %w", err)
	}
	if seeded {
		s.logger.DebugContext(ctx, "Store already seeded")
	}
	return seeded, nil
}

type fixtures struct {
	users           []model.User
	representatives []model.Representative
	clients         []model.Client
	plans           []model.Plan
	sales           []model.Sale
	chats           []model.Chat
}

// fixtures builds the demo data with dates relative to the store clock.
func (s *Store) fixtures() (fixtures, error) {
	hash := func(password string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash fixture password: %w", err)
		}
		return string(h), nil
	}
	adminHash, err := hash("admin123")
	if err != nil {
		return fixtures{}, err
	}
	repHash, err := hash("rep123")
	if err != nil {
		return fixtures{}, err
	}
	clientHash, err := hash("cliente123")
	if err != nil {
		return fixtures{}, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := model.PeriodOf(today)
	dec := decimal.NewFromInt
	id := func(v int64) *int64 { return &v }

	carlosGoal, marianaGoal := dec(150000), dec(100000)
	nextPaymentAna, nextPaymentCarla := today.AddDate(0, 0, 10), today.AddDate(0, 0, 20)
	anaScore := 85

	users := []model.User{
		{ID: 1, Name: "Admin Loop", Email: "admin@loop.com", Password: adminHash, Role: model.RoleAdmin},
		{ID: 2, Name: "Carlos Silva", Email: "carlos@loop.com", Password: repHash, Role: model.RoleRepresentative},
		{ID: 3, Name: "Mariana Costa", Email: "mariana@loop.com", Password: repHash, Role: model.RoleRepresentative},
		{ID: 4, Name: "Ana Souza", Email: "ana@email.com", Password: clientHash, Role: model.RoleClient},
	}

	representatives := []model.Representative{
		{ID: 1, Name: "Carlos Silva", Email: "carlos@loop.com", CommissionRate: dec(5), Sales: 3,
			Status: model.RepresentativeActive, MonthlyGoal: &carlosGoal, UserID: id(2)},
		{ID: 2, Name: "Mariana Costa", Email: "mariana@loop.com", CommissionRate: decimal.RequireFromString("4.5"), Sales: 2,
			Status: model.RepresentativeActive, MonthlyGoal: &marianaGoal, SupervisorID: id(1), UserID: id(3)},
		{ID: 3, Name: "João Pereira", Email: "joao@loop.com", CommissionRate: dec(4),
			Status: model.RepresentativeInactive, SupervisorID: id(1)},
	}

	clients := []model.Client{
		{ID: 1, Name: "Ana Souza", Phone: "(11) 98765-4321", Email: "ana@email.com", Document: "123.456.789-00",
			Address: "Rua das Flores, 100 - São Paulo/SP", Plan: "Imóvel Premium", Status: model.ClientActive,
			NextPayment: &nextPaymentAna, LeadScore: &anaScore, LeadJustification: "Cliente com histórico de pagamentos em dia.",
			UserID: id(4), RepresentativeID: id(1)},
		{ID: 2, Name: "Bruno Lima", Phone: "(21) 99876-5432", Email: "bruno@email.com", Plan: "Auto Flex",
			Status: model.ClientLead, RepresentativeID: id(1)},
		{ID: 3, Name: "Carla Dias", Phone: "(31) 97654-3210", Email: "carla@email.com", Document: "987.654.321-00",
			Address: "Av. Afonso Pena, 2000 - Belo Horizonte/MG", Plan: "Serviços Essencial", Status: model.ClientActive,
			NextPayment: &nextPaymentCarla, RepresentativeID: id(2)},
	}

	plans := []model.Plan{
		{ID: 1, Name: "Imóvel Premium", Type: model.PlanRealEstate, CreditMin: dec(100000), CreditMax: dec(500000),
			TermMonths: 180, AdminFee: dec(18)},
		{ID: 2, Name: "Auto Flex", Type: model.PlanAutomobile, CreditMin: dec(30000), CreditMax: dec(150000),
			TermMonths: 80, AdminFee: dec(15)},
		{ID: 3, Name: "Serviços Essencial", Type: model.PlanServices, CreditMin: dec(10000), CreditMax: dec(30000),
			TermMonths: 36, AdminFee: dec(12)},
	}

	// Newest first, as Add would leave them
	sales := []model.Sale{
		{ID: 5, RepresentativeID: 2, ClientID: id(3), ClientName: "Carla Dias", Plan: "Serviços Essencial",
			Value: dec(20000), Date: today.AddDate(0, 0, -1), Status: model.SalePending},
		{ID: 4, RepresentativeID: 1, ClientID: id(2), ClientName: "Bruno Lima", Plan: "Auto Flex",
			Value: dec(60000), Date: today.AddDate(0, 0, -3), Status: model.SaleRejected,
			RejectionReason: "Documentação incompleta"},
		{ID: 3, RepresentativeID: 2, ClientID: id(3), ClientName: "Carla Dias", Plan: "Serviços Essencial",
			Value: dec(15000), Date: monthStart.AddDate(0, 0, 2), Status: model.SaleApproved},
		{ID: 2, RepresentativeID: 1, ClientID: id(1), ClientName: "Ana Souza", Plan: "Imóvel Premium",
			Value: dec(250000), Date: monthStart.AddDate(0, -1, 9), Status: model.SaleApproved, CommissionPaid: true},
		{ID: 1, RepresentativeID: 1, ClientID: id(1), ClientName: "Ana Souza", Plan: "Auto Flex",
			Value: dec(80000), Date: monthStart.AddDate(0, -2, 14), Status: model.SaleApproved},
	}

	opened := now.Add(-2 * time.Hour)
	chats := []model.Chat{{
		ID:         1,
		ClientID:   1,
		ClientName: "Ana Souza",
		Messages: []model.Message{
			{ID: 1, Sender: model.SenderClient, Text: "Olá! Quando vence minha próxima parcela?", Timestamp: opened},
			{ID: 2, Sender: model.SenderBot, Text: "Olá, Ana! Sua próxima parcela vence em " + nextPaymentAna.Format("02/01/2006") + ".",
				Timestamp: opened.Add(time.Minute)},
		},
		LastMessageTimestamp: opened.Add(time.Minute),
	}}

	return fixtures{
		users:           users,
		representatives: representatives,
		clients:         clients,
		plans:           plans,
		sales:           sales,
		chats:           chats,
	}, nil
}

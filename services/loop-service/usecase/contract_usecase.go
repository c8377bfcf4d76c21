package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// Contract template placeholders
const (
	PlaceholderClient         = "{{CLIENTE}}"
	PlaceholderPlan           = "{{PLANO}}"
	PlaceholderValue          = "{{VALOR}}"
	PlaceholderDate           = "{{DATA}}"
	PlaceholderRepresentative = "{{REPRESENTANTE}}"
)

// ContractUseCase manages the contract template and fills it in for a sale
type ContractUseCase interface {
	Template(ctx context.Context) (string, error)
	SetTemplate(ctx context.Context, template string) error
	// Render fills the template with the sale's data, formatted for pt-BR
	Render(ctx context.Context, caller model.Caller, saleID int64) (string, error)
}

type contractUseCase struct {
	store   repository.Store
	sales   SaleUseCase
	printer *message.Printer
	logger  logger.LoggerInterface
}

// NewContractUseCase creates a new instance of contractUseCase. sales decides which sales
// the caller may render.
func NewContractUseCase(store repository.Store, sales SaleUseCase, appLogger logger.LoggerInterface) ContractUseCase {
	return &contractUseCase{
		store:   store,
		sales:   sales,
		printer: message.NewPrinter(language.BrazilianPortuguese),
		logger:  appLogger,
	}
}

func (uc *contractUseCase) Template(ctx context.Context) (string, error) {
	template := uc.store.ContractTemplate(ctx)
	if template == "" {
		return "", domain.ErrTemplateNotSet
	}
	return template, nil
}

func (uc *contractUseCase) SetTemplate(ctx context.Context, template string) error {
	uc.logger.InfoContext(ctx, "Saving contract template", "length", len(template))
	uc.store.SetContractTemplate(ctx, template)
	return nil
}

func (uc *contractUseCase) Render(ctx context.Context, caller model.Caller, saleID int64) (string, error) {
	sale, err := uc.sales.Get(ctx, caller, saleID)
	if err != nil {
		return "", err
	}
	template, err := uc.Template(ctx)
	if err != nil {
		return "", err
	}

	repName := model.UnknownRepresentativeName
	if rep, ok := uc.store.Representatives().Get(ctx, sale.RepresentativeID); ok {
		repName = rep.Name
	}

	replacer := strings.NewReplacer(
		PlaceholderClient, sale.ClientName,
		PlaceholderPlan, sale.Plan,
		PlaceholderValue, uc.formatReais(sale.Value),
		PlaceholderDate, sale.Date.Format("02/01/2006"),
		PlaceholderRepresentative, repName,
	)
	uc.logger.InfoContext(ctx, "Contract rendered", "saleID", saleID)
	return replacer.Replace(template), nil
}

// formatReais renders value as "R$ 1.234,56" from its exact decimal digits.
func (uc *contractUseCase) formatReais(value decimal.Decimal) string {
	rounded := value.Round(2)
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return "R$ " + sign + uc.groupThousands(whole) + "," + cents
}

// groupThousands separates a run of digits into groups of three.
func (uc *contractUseCase) groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return uc.printer.Sprintf("%d", n)
	}
	// beyond int64 the printer cannot take the number, so group by hand
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

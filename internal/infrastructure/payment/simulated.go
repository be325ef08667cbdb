// Package payment содержит платежный шлюз-симулятор: фиксированная задержка
// обработки и отказ по тестовой карте.
package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/google/uuid"
)

// DeclinedTestCard проходит проверку Луна, но всегда отклоняется.
const DeclinedTestCard = "4000000000000002"

type charge struct {
	reference string
	amount    int64
	refunded  bool
}

// SimulatedGateway хранит списания в памяти. Повтор с тем же ключом
// идемпотентности возвращает исходное списание.
type SimulatedGateway struct {
	delay  time.Duration
	logger logger.Logger

	mu    sync.Mutex
	byKey map[string]*charge
	byRef map[string]*charge
}

func NewSimulatedGateway(delay time.Duration, logger logger.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		delay:  delay,
		logger: logger,
		byKey:  make(map[string]*charge),
		byRef:  make(map[string]*charge),
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req *usecase.ChargeReq) (*usecase.ChargeRes, error) {
	const op = "SimulatedGateway.Charge"

	if err := g.wait(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Amount <= 0 {
		return nil, e.NewPaymentFailed("amount must be positive")
	}

	if strings.TrimSpace(req.Card.CardNumber) == DeclinedTestCard {
		return nil, e.NewPaymentDeclined("card declined by issuer")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if req.IdempotencyKey != "" {
		if c, ok := g.byKey[req.IdempotencyKey]; ok {
			return &usecase.ChargeRes{PaymentReference: c.reference, Amount: c.amount}, nil
		}
	}

	c := &charge{reference: "PAY-" + strings.ToUpper(uuid.NewString()[:8]), amount: req.Amount}
	g.byRef[c.reference] = c
	if req.IdempotencyKey != "" {
		g.byKey[req.IdempotencyKey] = c
	}

	g.logger.Infof("%s: charged %s %s, ref=%s", op, domain.FormatPrice(req.Amount), req.Currency, c.reference)

	return &usecase.ChargeRes{PaymentReference: c.reference, Amount: c.amount}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, paymentReference string, amount int64) error {
	const op = "SimulatedGateway.Refund"

	if err := g.wait(ctx); err != nil {
		return e.Wrap(op, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.byRef[paymentReference]
	if !ok {
		return e.Wrap(op, fmt.Errorf("unknown payment %s", paymentReference))
	}
	if c.refunded {
		return nil
	}
	if amount != c.amount {
		return e.Wrap(op, fmt.Errorf("refund amount %d does not match charge %d", amount, c.amount))
	}

	c.refunded = true
	g.logger.Infof("%s: refunded %s, ref=%s", op, domain.FormatPrice(amount), paymentReference)

	return nil
}

// Refunded сообщает, возвращено ли списание.
func (g *SimulatedGateway) Refunded(paymentReference string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.byRef[paymentReference]
	return ok && c.refunded
}

func (g *SimulatedGateway) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(g.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return e.ErrGatewayUnavailable
	case <-t.C:
		return nil
	}
}

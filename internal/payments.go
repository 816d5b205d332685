package internal

import (
	"context"
	"fmt"
	"foodcourt/config"
	"foodcourt/entity"
	"foodcourt/services"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// Payments drives the checkout flow against the payment gateway and
// reconciles callback results. A per-user in-flight marker guards against
// re-entrant submissions, and per-transaction locks serialize callback
// processing for the same order.
type Payments struct {
	conf     *config.Config
	database services.Database
	carts    services.Carts
	logger   services.LogHandler
	gateway  *Gateway
	inflight sync.Map // map[string]struct{} per user id
	locks    sync.Map // map[string]*sync.Mutex per merchant txn id
}

func NewPayments(conf *config.Config) *Payments {
	return &Payments{
		conf:    conf,
		gateway: NewGateway(conf),
	}
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetCarts(carts services.Carts) {
	p.carts = carts
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	if p.conf.DisablePayment {
		p.logger.Warn("payment initiation disabled")
	}
}

// lockTxn acquires a lock for a merchant transaction so the browser redirect
// and the server-to-server callback cannot reconcile the same order
// concurrently.
func (p *Payments) lockTxn(id string) *sync.Mutex {
	value, _ := p.locks.LoadOrStore(id, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return mutex
}

func (p *Payments) unlockTxn(id string, mutex *sync.Mutex) {
	mutex.Unlock()
	// Clean up mutex from map to prevent unbounded growth
	p.locks.Delete(id)
}

// Checkout runs Idle -> Validating -> Submitting -> (Redirected | Failed).
// Validation failures never contact the gateway; gateway failures reset the
// flow so the user can retry.
func (p *Payments) Checkout(ctx context.Context, session *entity.CheckoutSession) (*services.CheckoutResult, error) {
	user := session.User
	if user.Id == "" {
		return nil, entity.ValidationError("authentication required")
	}
	if len(session.Cart.Items) == 0 {
		return nil, entity.ValidationError("cart is empty")
	}
	if session.Origin == "" {
		return nil, entity.ValidationError("unknown request origin")
	}
	if p.conf.DisablePayment {
		return nil, entity.ValidationError("payments are temporarily disabled")
	}
	if p.database == nil {
		return nil, fmt.Errorf("database not set")
	}

	// Submission-in-progress guard: a double click must not produce a
	// second gateway request while the first is pending.
	if _, loaded := p.inflight.LoadOrStore(user.Id, struct{}{}); loaded {
		return nil, entity.ValidationError("checkout already in progress")
	}
	defer p.inflight.Delete(user.Id)

	now := time.Now()
	txnId := entity.MerchantTxnId(now, user.Id)
	if existing, _ := p.database.GetOrderByTxn(ctx, txnId); existing != nil {
		// Same user, same millisecond: wall-clock derived ids can collide
		// on rapid repeats, so refuse rather than reuse.
		return nil, entity.ValidationError("duplicate checkout attempt, try again")
	}

	amount := session.Cart.Subtotal() + p.conf.Checkout.DeliveryFee

	order := &entity.Order{
		Id:            ksuid.New().String(),
		MerchantTxnId: txnId,
		UserId:        user.Id,
		Status:        entity.OrderPending,
		Total:         amount,
		Items:         session.Cart.OrderItems(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.database.SaveOrder(ctx, order); err != nil {
		p.logger.Error(fmt.Sprintf("save order %s", txnId), err)
		return nil, fmt.Errorf("create order: %v", err)
	}

	request := &entity.PaymentRequest{
		Amount:    amount,
		OrderId:   txnId,
		UserId:    user.Id,
		UserEmail: user.Email,
		UserName:  user.Name,
	}
	p.logger.Info(fmt.Sprintf("initiating payment: order %s; user %s; amount %d", txnId, mask(user.Id), amount))

	url, err := p.gateway.Pay(ctx, request, session.Origin)
	if err != nil {
		p.logger.Error(fmt.Sprintf("pay order %s", txnId), err)
		if e := p.database.UpdateOrderStatus(ctx, order.Id, entity.OrderFailed); e != nil {
			p.logger.Error(fmt.Sprintf("mark order %s failed", txnId), e)
		}
		return nil, err
	}

	return &services.CheckoutResult{
		OrderId:     txnId,
		RedirectUrl: url,
	}, nil
}

// ConfirmOrder reconciles a payment outcome. The merchant transaction id
// arrives from an untrusted browser redirect or callback, so the outcome is
// always re-read from the gateway's status API before the order moves out of
// pending. Confirming an already completed order is a no-op.
func (p *Payments) ConfirmOrder(ctx context.Context, merchantTxnId string) (string, error) {
	if merchantTxnId == "" {
		return "", fmt.Errorf("empty transaction id")
	}
	if p.database == nil {
		return "", fmt.Errorf("database not set")
	}

	mutex := p.lockTxn(merchantTxnId)
	defer p.unlockTxn(merchantTxnId, mutex)

	order, err := p.database.GetOrderByTxn(ctx, merchantTxnId)
	if err != nil {
		return "", fmt.Errorf("get order %s: %v", merchantTxnId, err)
	}
	if order.Status == entity.OrderCompleted {
		return order.Status, nil
	}

	status, err := p.gateway.Status(ctx, merchantTxnId)
	if err != nil {
		p.logger.Error(fmt.Sprintf("status check %s", merchantTxnId), err)
		return "", err
	}

	result := p.resolveStatus(status)
	p.logger.Info(fmt.Sprintf("order %s: gateway code %s -> %s", merchantTxnId, status.Code, result))
	if result == entity.OrderPending {
		return order.Status, nil
	}

	if err = p.database.UpdateOrderStatus(ctx, order.Id, result); err != nil {
		return "", fmt.Errorf("update order %s: %v", merchantTxnId, err)
	}
	if result == entity.OrderCompleted && p.carts != nil {
		if err = p.carts.ClearCart(ctx, order.UserId); err != nil {
			p.logger.Error(fmt.Sprintf("clear cart for %s", mask(order.UserId)), err)
		}
	}
	return result, nil
}

// resolveStatus maps a gateway status response onto the order lifecycle.
// Anything that is not an explicit success or an explicit pending counts as
// failed.
func (p *Payments) resolveStatus(status *entity.StatusResponse) string {
	if status.Code == entity.PaymentPending {
		return entity.OrderPending
	}
	if status.Success && status.Code == entity.PaymentSuccess &&
		status.Data != nil && status.Data.State == "COMPLETED" {
		return entity.OrderCompleted
	}
	return entity.OrderFailed
}

func mask(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}

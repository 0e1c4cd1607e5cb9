package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/provider/gateway"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	SetPaymentSession(ctx context.Context, id, snapToken, redirectURL string) error
	GetByRef(ctx context.Context, orderRef string) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Order, error)
	TransitionByRef(ctx context.Context, orderRef string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (bool, error)
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type AccountGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// PaymentGateway is the gateway surface checkout needs; *gateway.Client
// satisfies it.
type PaymentGateway interface {
	CreateSession(ctx context.Context, orderRef string, grossAmount int64, items []gateway.ItemDetail, customer gateway.CustomerDetail) (*gateway.PaymentSession, error)
	VerifyNotification(n *gateway.Notification) bool
}

type NotificationSink interface {
	Notify(ctx context.Context, accountID, notifType, title, message string, payload map[string]interface{}) (*domain.Notification, error)
}

type Usecase struct {
	orders   OrderRepo
	products ProductGetter
	accounts AccountGetter
	gw       PaymentGateway
	notif    NotificationSink
	cfgCache *ConfigCache
	sf       *id.Snowflake
	logger   *zap.Logger

	// pending orders older than this are eligible for local expiry
	pendingGrace time.Duration
}

func New(
	orders OrderRepo,
	products ProductGetter,
	accounts AccountGetter,
	gw PaymentGateway,
	notif NotificationSink,
	cfgCache *ConfigCache,
	sf *id.Snowflake,
	logger *zap.Logger,
	pendingGrace time.Duration,
) *Usecase {
	return &Usecase{
		orders:       orders,
		products:     products,
		accounts:     accounts,
		gw:           gw,
		notif:        notif,
		cfgCache:     cfgCache,
		sf:           sf,
		logger:       logger,
		pendingGrace: pendingGrace,
	}
}

// CheckoutResult is what create-transaction hands back for redirection into
// the gateway's hosted flow.
type CheckoutResult struct {
	Order       *domain.Order `json:"order"`
	SnapToken   string        `json:"snap_token"`
	RedirectURL string        `json:"redirect_url"`
}

// CreateTransaction checks a single product out. The client-asserted total is
// verified against the stored price, never trusted.
func (u *Usecase) CreateTransaction(ctx context.Context, buyerID, productID string, quantity int, clientTotal int64) (*CheckoutResult, error) {
	if quantity <= 0 {
		quantity = 1
	}
	return u.createOrder(ctx, buyerID, []domain.CartLine{{ProductID: productID, Quantity: quantity}}, clientTotal)
}

// CreateCartTransaction checks a cart of line items out; both entry points
// normalize to the same line-item shape.
func (u *Usecase) CreateCartTransaction(ctx context.Context, buyerID string, lines []domain.CartLine, clientTotal int64) (*CheckoutResult, error) {
	return u.createOrder(ctx, buyerID, lines, clientTotal)
}

func (u *Usecase) createOrder(ctx context.Context, buyerID string, lines []domain.CartLine, clientTotal int64) (*CheckoutResult, error) {
	if len(lines) == 0 {
		return nil, xerrors.ErrEmptyCart
	}

	buyer, err := u.accounts.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	// Normalize: resolve every line against the authoritative product record
	// and snapshot name + unit price onto the order.
	items := make([]domain.LineItem, 0, len(lines))
	gwItems := make([]gateway.ItemDetail, 0, len(lines))
	var total int64
	for _, line := range lines {
		p, err := u.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Payable() {
			return nil, xerrors.ErrNotPayable
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		li := domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
		}
		items = append(items, li)
		gwItems = append(gwItems, gateway.ItemDetail{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: qty,
		})
		total += li.Subtotal()
	}

	if clientTotal != total {
		u.logger.Warn("checkout amount mismatch",
			zap.String("buyer_id", buyerID),
			zap.Int64("client_total", clientTotal),
			zap.Int64("computed_total", total))
		return nil, xerrors.ErrAmountMismatch
	}

	order := &domain.Order{
		ID:          u.sf.Generate(),
		BuyerID:     buyerID,
		OrderRef:    id.GenerateOrderRef("ORDER"),
		LineItems:   items,
		TotalAmount: total,
		Status:      domain.OrderPending,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	customer := gateway.CustomerDetail{
		FirstName: buyer.Username,
		Email:     buyer.Email,
	}
	if buyer.Phone != nil {
		customer.Phone = *buyer.Phone
	}

	session, err := u.gw.CreateSession(ctx, order.OrderRef, total, gwItems, customer)
	if err != nil {
		// The order stays pending; the expiry sweep reclaims it if the buyer
		// never retries.
		u.logger.Error("gateway session creation failed",
			zap.String("order_ref", order.OrderRef),
			zap.Error(err))
		return nil, err
	}

	if err := u.orders.SetPaymentSession(ctx, order.ID, session.Token, session.RedirectURL); err != nil {
		return nil, err
	}
	order.SnapToken = session.Token
	order.RedirectURL = session.RedirectURL

	u.logger.Info("checkout session created",
		zap.String("order_ref", order.OrderRef),
		zap.String("buyer_id", buyerID),
		zap.Int64("total", total))

	return &CheckoutResult{
		Order:       order,
		SnapToken:   session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

// HandleNotification reconciles one gateway callback. The endpoint is public,
// so nothing in the body is trusted until the signature checks out and, for a
// success, the reported amount matches the stored order total. Replaying the
// same callback is harmless: the conditional transition flips the row at most
// once, and side effects fire only when it did.
func (u *Usecase) HandleNotification(ctx context.Context, n *gateway.Notification) error {
	if !u.gw.VerifyNotification(n) {
		u.logger.Warn("callback rejected, signature mismatch",
			zap.String("order_ref", n.OrderRef),
			zap.String("transaction_status", n.TransactionStatus))
		return xerrors.ErrInvalidSignature
	}

	order, err := u.orders.GetByRef(ctx, n.OrderRef)
	if err != nil {
		return err
	}

	to := n.MapStatus()
	if to == domain.OrderPending {
		return nil // nothing to apply
	}

	if to == domain.OrderSuccess {
		amount, err := n.GrossAmountValue()
		if err != nil || amount != order.TotalAmount {
			u.logger.Warn("callback rejected, amount mismatch",
				zap.String("order_ref", n.OrderRef),
				zap.String("gross_amount", n.GrossAmount),
				zap.Int64("order_total", order.TotalAmount))
			return xerrors.ErrAmountMismatch
		}
	}

	allowedFrom := []domain.OrderStatus{domain.OrderPending}
	if to == domain.OrderSuccess || to == domain.OrderFailed {
		// challenge resolves to success or failed after manual review
		allowedFrom = append(allowedFrom, domain.OrderChallenge)
	}

	flipped, err := u.orders.TransitionByRef(ctx, n.OrderRef, to, allowedFrom...)
	if err != nil {
		return err
	}
	if !flipped {
		u.logger.Info("callback ignored, no eligible transition",
			zap.String("order_ref", n.OrderRef),
			zap.String("gateway_status", n.TransactionStatus),
			zap.String("target_status", string(to)))
		return nil
	}

	u.logger.Info("order transitioned",
		zap.String("order_ref", n.OrderRef),
		zap.String("status", string(to)))

	if to == domain.OrderSuccess {
		if _, err := u.notif.Notify(ctx, order.BuyerID, domain.NotifOrderPaid,
			"Payment received",
			"Your payment was confirmed.",
			map[string]interface{}{
				"order_id":  order.ID,
				"order_ref": order.OrderRef,
				"total":     order.TotalAmount,
			}); err != nil {
			// best-effort: the transition already happened
			u.logger.Warn("failed to create payment notification",
				zap.String("order_ref", order.OrderRef),
				zap.Error(err))
		}
	}
	return nil
}

func (u *Usecase) ListOrders(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Order, error) {
	return u.orders.ListByBuyer(ctx, buyerID, limit, offset)
}

func (u *Usecase) GetOrder(ctx context.Context, buyerID, orderRef string) (*domain.Order, error) {
	order, err := u.orders.GetByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, xerrors.ErrForbidden
	}
	return order, nil
}

// GatewayConfig serves the public client configuration through the cache.
func (u *Usecase) GatewayConfig() (GatewayConfig, error) {
	return u.cfgCache.GetOrRefresh()
}

// ExpireStale marks abandoned pending orders expired. The server runs it on a
// ticker.
func (u *Usecase) ExpireStale(ctx context.Context) error {
	n, err := u.orders.ExpireStale(ctx, time.Now().Add(-u.pendingGrace))
	if err != nil {
		return err
	}
	if n > 0 {
		u.logger.Info("expired stale pending orders", zap.Int64("count", n))
	}
	return nil
}

// IsUnknownOrder reports whether the error from HandleNotification means the
// transaction identifier matched no order.
func IsUnknownOrder(err error) bool {
	return errors.Is(err, xerrors.ErrUnknownOrder)
}

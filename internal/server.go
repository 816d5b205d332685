package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"foodcourt/config"
	"foodcourt/entity"
	"foodcourt/services"

	"gitee.com/golang-module/dongle"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	healthPath      = "/health"
	menuPath        = "/api/menu"
	menuItemPath    = "/api/menu/:id"
	cartPath        = "/api/cart"
	cartItemsPath   = "/api/cart/items"
	cartItemPath    = "/api/cart/items/:id"
	checkoutPath    = "/api/checkout"
	orderPath       = "/api/orders/:id"
	redirectBack    = "/payment/callback"
	callbackBack    = "/api/payment/callback"
	adminMenuPath   = "/api/admin/menu"
	adminMenuItem   = "/api/admin/menu/:id"
	adminOrdersPath = "/api/admin/orders"
	adminStatsPath  = "/api/admin/stats"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	database   services.Database
	carts      services.Carts
	logger     services.LogHandler
	validate   *validator.Validate
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf:     conf,
		validate: validator.New(),
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(healthPath, s.health)
	router.GET(menuPath, s.listMenu)
	router.GET(menuItemPath, s.getMenuItem)

	router.GET(cartPath, s.authorized(s.getCart))
	router.POST(cartItemsPath, s.authorized(s.addCartItem))
	router.PUT(cartItemPath, s.authorized(s.setCartQuantity))
	router.DELETE(cartItemPath, s.authorized(s.removeCartItem))
	router.DELETE(cartPath, s.authorized(s.clearCart))

	router.POST(checkoutPath, s.authorized(s.checkout))
	router.GET(orderPath, s.authorized(s.getOrder))

	router.POST(redirectBack, s.paymentRedirect)
	router.POST(callbackBack, s.paymentCallback)

	router.POST(adminMenuPath, s.admin(s.createMenuItem))
	router.PUT(adminMenuItem, s.admin(s.updateMenuItem))
	router.DELETE(adminMenuItem, s.admin(s.deleteMenuItem))
	router.GET(adminOrdersPath, s.admin(s.listOrders))
	router.GET(adminStatsPath, s.admin(s.stats))
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetDatabase(database services.Database) {
	s.database = database
}

func (s *Server) SetCarts(carts services.Carts) {
	s.carts = carts
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

// authUser is a handler that additionally receives the verified identity.
type authUser func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, user *entity.User)

// authorized verifies the bearer token before running the handler.
func (s *Server) authorized(next authUser) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, err := Authenticate(r, s.conf.Identity.Secret)
		if err != nil {
			s.sendError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(WithRequestID(r.Context())), ps, user)
	}
}

// admin additionally requires the identity provider's admin flag.
func (s *Server) admin(next authUser) httprouter.Handle {
	return s.authorized(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, user *entity.User) {
		if !user.Admin {
			s.sendError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r, ps, user)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := s.database.GetMenuItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.logger.Error("list menu", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	s.sendJSON(w, http.StatusOK, items)
}

func (s *Server) getMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	item, err := s.database.GetMenuItem(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.sendError(w, http.StatusNotFound, "menu item not found")
			return
		}
		s.logger.Error("get menu item", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load menu item")
		return
	}
	s.sendJSON(w, http.StatusOK, item)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params, user *entity.User) {
	cart, err := s.carts.GetCart(r.Context(), user.Id)
	if err != nil {
		s.logger.Error("get cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"cart":     cart,
		"subtotal": cart.Subtotal(),
		"count":    cart.TotalItems(),
	})
}

type addCartItemRequest struct {
	ItemId   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=50"`
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params, user *entity.User) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := s.validate.Struct(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid cart item")
		return
	}

	// Price and name come from the catalogue, never from the client.
	item, err := s.database.GetMenuItem(r.Context(), req.ItemId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.sendError(w, http.StatusNotFound, "menu item not found")
			return
		}
		s.logger.Error("add cart item", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load menu item")
		return
	}

	cart, err := s.carts.GetCart(r.Context(), user.Id)
	if err != nil {
		s.logger.Error("get cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	cart.AddItem(entity.CartItem{
		ItemId:   item.Id,
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Quantity: req.Quantity,
	})
	if err = s.carts.SaveCart(r.Context(), cart); err != nil {
		s.logger.Error("save cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	s.sendJSON(w, http.StatusOK, cart)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=50"`
}

func (s *Server) setCartQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params, user *entity.User) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	cart, err := s.carts.GetCart(r.Context(), user.Id)
	if err != nil {
		s.logger.Error("get cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if !cart.SetQuantity(ps.ByName("id"), req.Quantity) {
		s.sendError(w, http.StatusNotFound, "item not in cart")
		return
	}
	if err = s.carts.SaveCart(r.Context(), cart); err != nil {
		s.logger.Error("save cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	s.sendJSON(w, http.StatusOK, cart)
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params, user *entity.User) {
	cart, err := s.carts.GetCart(r.Context(), user.Id)
	if err != nil {
		s.logger.Error("get cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if !cart.Remove(ps.ByName("id")) {
		s.sendError(w, http.StatusNotFound, "item not in cart")
		return
	}
	if err = s.carts.SaveCart(r.Context(), cart); err != nil {
		s.logger.Error("save cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	s.sendJSON(w, http.StatusOK, cart)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params, user *entity.User) {
	if err := s.carts.ClearCart(r.Context(), user.Id); err != nil {
		s.logger.Error("clear cart", err)
		s.sendError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkout snapshots the user's cart and runs the payment initiation flow.
// The response carries the gateway-hosted page the browser must navigate to.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params, user *entity.User) {
	ctx := r.Context()
	reqID := GetRequestID(ctx)

	cart, err := s.carts.GetCart(ctx, user.Id)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] checkout: get cart", reqID), err)
		s.sendError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	session := &entity.CheckoutSession{
		User:   *user,
		Cart:   *cart,
		Origin: s.origin(r),
	}
	result, err := s.payments.Checkout(ctx, session)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] checkout rejected for %s: %v", reqID, mask(user.Id), err))
		s.sendPaymentError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, result)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params, user *entity.User) {
	order, err := s.database.GetOrderByTxn(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.sendError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("get order", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if order.UserId != user.Id && !user.Admin {
		s.sendError(w, http.StatusForbidden, "not your order")
		return
	}
	s.sendJSON(w, http.StatusOK, order)
}

// paymentRedirect handles the browser coming back from the gateway's hosted
// page. Everything in the request is untrusted; only the transaction id is
// read, and the outcome is re-verified against the gateway before the order
// changes state.
func (s *Server) paymentRedirect(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid callback")
		return
	}
	txnId := r.Form.Get("merchantTransactionId")
	if txnId == "" {
		txnId = r.Form.Get("transactionId")
	}
	s.reconcile(ctx, w, reqID, txnId)
}

// gatewayCallback is the server-to-server notification body: a Base64
// payload the gateway posts to the configured callbackUrl.
type gatewayCallback struct {
	Response string `json:"response"`
}

func (s *Server) paymentCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var callback gatewayCallback
	if err := json.NewDecoder(r.Body).Decode(&callback); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid callback body")
		return
	}
	payload := dongle.Decode.FromString(callback.Response).ByBase64().ToBytes()
	var notice struct {
		Data struct {
			MerchantTransactionId string `json:"merchantTransactionId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &notice); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] unreadable callback payload: %v", reqID, err))
		s.sendError(w, http.StatusBadRequest, "invalid callback payload")
		return
	}
	s.reconcile(ctx, w, reqID, notice.Data.MerchantTransactionId)
}

func (s *Server) reconcile(ctx context.Context, w http.ResponseWriter, reqID, txnId string) {
	if txnId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] callback without transaction id", reqID))
		s.sendError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	status, err := s.payments.ConfirmOrder(ctx, txnId)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] confirm order %s", reqID, txnId), err)
		s.sendError(w, http.StatusBadGateway, "payment could not be verified")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{
		"order_id": txnId,
		"status":   status,
	})
}

type menuItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Price       int    `json:"price" validate:"required,gt=0"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
}

func (s *Server) createMenuItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *entity.User) {
	req, ok := s.readMenuItem(w, r)
	if !ok {
		return
	}
	now := time.Now()
	item := &entity.MenuItem{
		Id:          ksuid.New().String(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.database.CreateMenuItem(r.Context(), item); err != nil {
		s.logger.Error("create menu item", err)
		s.sendError(w, http.StatusInternalServerError, "failed to create menu item")
		return
	}
	s.sendJSON(w, http.StatusCreated, item)
}

func (s *Server) updateMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *entity.User) {
	req, ok := s.readMenuItem(w, r)
	if !ok {
		return
	}
	item := &entity.MenuItem{
		Id:          ps.ByName("id"),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		UpdatedAt:   time.Now(),
	}
	if err := s.database.UpdateMenuItem(r.Context(), item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.sendError(w, http.StatusNotFound, "menu item not found")
			return
		}
		s.logger.Error("update menu item", err)
		s.sendError(w, http.StatusInternalServerError, "failed to update menu item")
		return
	}
	s.sendJSON(w, http.StatusOK, item)
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *entity.User) {
	if err := s.database.DeleteMenuItem(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.sendError(w, http.StatusNotFound, "menu item not found")
			return
		}
		s.logger.Error("delete menu item", err)
		s.sendError(w, http.StatusInternalServerError, "failed to delete menu item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *entity.User) {
	orders, err := s.database.GetOrders(r.Context())
	if err != nil {
		s.logger.Error("list orders", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	s.sendJSON(w, http.StatusOK, orders)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *entity.User) {
	items, err := s.database.GetMenuItems(r.Context(), "")
	if err != nil {
		s.logger.Error("stats: menu items", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	total, completed, err := s.database.CountOrders(r.Context())
	if err != nil {
		s.logger.Error("stats: orders", err)
		s.sendError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]int64{
		"menu_items":       int64(len(items)),
		"orders":           total,
		"completed_orders": completed,
	})
}

func (s *Server) readMenuItem(w http.ResponseWriter, r *http.Request) (*menuItemRequest, bool) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := s.validate.Struct(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid menu item: %v", err))
		return nil, false
	}
	return &req, true
}

// origin returns the base URL the gateway should redirect back to, preferring
// the configured public origin over the request host.
func (s *Server) origin(r *http.Request) string {
	if s.conf.Checkout.PublicOrigin != "" {
		return s.conf.Checkout.PublicOrigin
	}
	scheme := "http"
	if r.TLS != nil || s.conf.Listen.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// sendPaymentError maps checkout errors onto HTTP statuses; anything that is
// not a typed payment error is an internal failure.
func (s *Server) sendPaymentError(w http.ResponseWriter, err error) {
	var paymentErr *entity.PaymentError
	if !errors.As(err, &paymentErr) {
		s.sendError(w, http.StatusInternalServerError, "checkout failed")
		return
	}
	switch paymentErr.Kind {
	case entity.ErrValidation:
		s.sendError(w, http.StatusBadRequest, paymentErr.Message)
	default:
		s.sendError(w, http.StatusBadGateway, paymentErr.Message)
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}

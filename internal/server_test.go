package internal

import (
	"context"
	"encoding/json"
	"foodcourt/config"
	"foodcourt/entity"
	"foodcourt/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

type paymentsMock struct {
	checkoutFn func(ctx context.Context, session *entity.CheckoutSession) (*services.CheckoutResult, error)
	confirmFn  func(ctx context.Context, txn string) (string, error)
}

func (m *paymentsMock) Checkout(ctx context.Context, session *entity.CheckoutSession) (*services.CheckoutResult, error) {
	return m.checkoutFn(ctx, session)
}

func (m *paymentsMock) ConfirmOrder(ctx context.Context, txn string) (string, error) {
	return m.confirmFn(ctx, txn)
}

func newTestServer(db services.Database, carts services.Carts, payments services.Payments) *httprouter.Router {
	conf := &config.Config{}
	conf.Identity.Secret = "secret"
	conf.Checkout.DeliveryFee = 40

	server := NewServer(conf)
	server.SetLogger(NewLogger("server", false, nil))
	server.SetDatabase(db)
	server.SetCarts(carts)
	server.SetPaymentsService(payments)

	router := httprouter.New()
	server.Register(router)
	return router
}

func userToken(t *testing.T, admin bool) string {
	t.Helper()
	return signToken(t, "secret", jwt.MapClaims{
		"sub":   "u1",
		"email": "u1@example.com",
		"name":  "User One",
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}

func doRequest(router *httprouter.Router, method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestListMenu(t *testing.T) {
	db := &dbMock{
		getMenuItemsFn: func(_ context.Context, category string) ([]entity.MenuItem, error) {
			require.Equal(t, "tiffins", category)
			return []entity.MenuItem{{Id: "dosa", Name: "Masala Dosa", Price: 80, Category: "tiffins"}}, nil
		},
	}
	router := newTestServer(db, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/menu?category=tiffins", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []entity.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Masala Dosa", items[0].Name)
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestServer(&dbMock{}, newCartsMock(), nil)
	w := doRequest(router, http.MethodGet, "/api/cart", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddCartItemUsesCataloguePrice(t *testing.T) {
	db := &dbMock{
		getMenuItemFn: func(_ context.Context, id string) (*entity.MenuItem, error) {
			require.Equal(t, "dosa", id)
			return &entity.MenuItem{Id: "dosa", Name: "Masala Dosa", Price: 80}, nil
		},
	}
	carts := newCartsMock()
	router := newTestServer(db, carts, nil)

	w := doRequest(router, http.MethodPost, "/api/cart/items", userToken(t, false),
		`{"item_id":"dosa","quantity":2,"price":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	cart := carts.carts["u1"]
	require.NotNil(t, cart)
	require.Equal(t, 80, cart.Items[0].Price, "client-supplied price is ignored")
	require.Equal(t, 160, cart.Subtotal())
}

func TestCheckoutHandler(t *testing.T) {
	carts := newCartsMock()
	_ = carts.SaveCart(context.Background(), &entity.Cart{
		UserId: "u1",
		Items:  []entity.CartItem{{ItemId: "dosa", Price: 80, Quantity: 1}},
	})
	payments := &paymentsMock{
		checkoutFn: func(_ context.Context, session *entity.CheckoutSession) (*services.CheckoutResult, error) {
			require.Equal(t, "u1", session.User.Id)
			require.Len(t, session.Cart.Items, 1)
			require.True(t, strings.HasPrefix(session.Origin, "http://"))
			return &services.CheckoutResult{OrderId: "ORDER_1_u1", RedirectUrl: "https://pay.example.com/x"}, nil
		},
	}
	router := newTestServer(&dbMock{}, carts, payments)

	w := doRequest(router, http.MethodPost, "/api/checkout", userToken(t, false), "")
	require.Equal(t, http.StatusOK, w.Code)

	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, "https://pay.example.com/x", result.RedirectUrl)
}

func TestCheckoutHandlerValidationError(t *testing.T) {
	payments := &paymentsMock{
		checkoutFn: func(context.Context, *entity.CheckoutSession) (*services.CheckoutResult, error) {
			return nil, entity.ValidationError("cart is empty")
		},
	}
	router := newTestServer(&dbMock{}, newCartsMock(), payments)

	w := doRequest(router, http.MethodPost, "/api/checkout", userToken(t, false), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "cart is empty")
}

func TestPaymentRedirectReconciles(t *testing.T) {
	payments := &paymentsMock{
		confirmFn: func(_ context.Context, txn string) (string, error) {
			require.Equal(t, "ORDER_1_u1", txn)
			return entity.OrderCompleted, nil
		},
	}
	router := newTestServer(&dbMock{}, nil, payments)

	r := httptest.NewRequest(http.MethodPost, "/payment/callback",
		strings.NewReader("merchantTransactionId=ORDER_1_u1&code=PAYMENT_SUCCESS"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), entity.OrderCompleted)
}

func TestPaymentRedirectMissingTxn(t *testing.T) {
	confirmCalled := false
	payments := &paymentsMock{
		confirmFn: func(context.Context, string) (string, error) {
			confirmCalled = true
			return "", nil
		},
	}
	router := newTestServer(&dbMock{}, nil, payments)

	w := doRequest(router, http.MethodPost, "/payment/callback", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, confirmCalled)
}

func TestAdminCreateMenuItem(t *testing.T) {
	router := newTestServer(&dbMock{}, nil, nil)

	// non-admin is rejected
	w := doRequest(router, http.MethodPost, "/api/admin/menu", userToken(t, false),
		`{"name":"Idli","price":40,"category":"tiffins"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	// invalid payloads are rejected before touching the store
	for _, body := range []string{
		`{"price":40,"category":"tiffins"}`,
		`{"name":"Idli","price":0,"category":"tiffins"}`,
		`{"name":"Idli","price":-5,"category":"tiffins"}`,
		`{"name":"Idli","price":40}`,
	} {
		w = doRequest(router, http.MethodPost, "/api/admin/menu", userToken(t, true), body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}

	w = doRequest(router, http.MethodPost, "/api/admin/menu", userToken(t, true),
		`{"name":"Idli","price":40,"category":"tiffins"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var item entity.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	require.Equal(t, "Idli", item.Name)
	require.NotEmpty(t, item.Id)
}

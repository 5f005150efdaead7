package handlers

import (
	"net/http"
	"testing"

	"bbq-storefront/models"
)

// placeOrder runs a full checkout and returns the order number.
func placeOrder(t *testing.T, ts *testStore, token string) string {
	t.Helper()
	readyToPay(t, ts, token, pickupDetails())
	resp := ts.mustDo(t, http.StatusCreated, "POST", "/api/checkout/payment", payWith(approvedCard), token)
	return resp["order"].(map[string]interface{})["order_number"].(string)
}

func TestGetOrder(t *testing.T) {
	ts := setupStoreRouter(freshDB())
	token := ts.newSession(t)
	number := placeOrder(t, ts, token)

	resp := ts.mustDo(t, http.StatusOK, "GET", "/api/orders/"+number, nil, token)
	if resp["order_number"] != number || resp["customer_name"] != "Pat Smoker" {
		t.Errorf("unexpected order: %v", resp)
	}
	items := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if _, leaked := resp["session_id"]; leaked {
		t.Error("session id must not be exposed")
	}
}

func TestGetOrderOtherSession(t *testing.T) {
	ts := setupStoreRouter(freshDB())
	number := placeOrder(t, ts, ts.newSession(t))

	ts.mustDo(t, http.StatusNotFound, "GET", "/api/orders/"+number, nil, ts.newSession(t))
}

func TestGetOrderNotFound(t *testing.T) {
	ts := setupStoreRouter(freshDB())
	token := ts.newSession(t)

	ts.mustDo(t, http.StatusNotFound, "GET", "/api/orders/BBQ000000-NOPE00", nil, token)
}

func TestGetOrders(t *testing.T) {
	ts := setupStoreRouter(freshDB())
	token := ts.newSession(t)
	placeOrder(t, ts, token)
	placeOrder(t, ts, token)

	w := ts.do(sessionRequest("GET", "/api/orders", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if orders := parseResponseArray(w); len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}

	w = ts.do(sessionRequest("GET", "/api/orders", nil, ts.newSession(t)))
	if orders := parseResponseArray(w); len(orders) != 0 {
		t.Errorf("a new session has no orders, got %d", len(orders))
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	ts := setupStoreRouter(freshDB())
	token := ts.newSession(t)
	number := placeOrder(t, ts, token)

	if got := ts.stock(t, "coleslaw"); got != 98 {
		t.Fatalf("expected coleslaw stock 98 after ordering, got %d", got)
	}

	resp := ts.mustDo(t, http.StatusOK, "POST", "/api/orders/"+number+"/cancel", nil, token)
	if resp["status"] != string(models.OrderStatusCancelled) {
		t.Errorf("expected cancelled, got %v", resp["status"])
	}
	if got := ts.stock(t, "coleslaw"); got != 100 {
		t.Errorf("expected coleslaw stock restored to 100, got %d", got)
	}
	if got := ts.stock(t, "brisket-plate"); got != 40 {
		t.Errorf("expected brisket plate stock restored to 40, got %d", got)
	}

	ts.mustDo(t, http.StatusConflict, "POST", "/api/orders/"+number+"/cancel", nil, token)
}

func TestCancelOrderAfterReady(t *testing.T) {
	db := freshDB()
	ts := setupStoreRouter(db)
	token := ts.newSession(t)
	number := placeOrder(t, ts, token)

	db.Model(&models.Order{}).Where("order_number = ?", number).Update("status", models.OrderStatusCompleted)

	ts.mustDo(t, http.StatusConflict, "POST", "/api/orders/"+number+"/cancel", nil, token)
}

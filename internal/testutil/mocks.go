package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/goccy/go-json"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// MockFuturesAPI is a mock HTTP server that simulates the futures REST API.
type MockFuturesAPI struct {
	*httptest.Server
	ExchangeInfo *types.ExchangeInfo

	mu            sync.Mutex
	orderForms    []map[string]string
	rejectWith    *types.APIError
	exchangeCalls int
	nextOrderID   int64
}

// NewMockFuturesAPI creates a new mock futures API server.
func NewMockFuturesAPI(info *types.ExchangeInfo) *MockFuturesAPI {
	mock := &MockFuturesAPI{
		ExchangeInfo: info,
		nextOrderID:  5001,
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/fapi/v1/exchangeInfo" && r.Method == http.MethodGet:
			mock.mu.Lock()
			mock.exchangeCalls++
			mock.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(mock.ExchangeInfo)
		case r.URL.Path == "/fapi/v1/order" && r.Method == http.MethodPost:
			mock.handleOrder(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	mock.Server = httptest.NewServer(handler)
	return mock
}

func (m *MockFuturesAPI) handleOrder(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	form := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			form[key] = values[0]
		}
	}
	form["X-MBX-APIKEY"] = r.Header.Get("X-MBX-APIKEY")
	m.orderForms = append(m.orderForms, form)

	w.Header().Set("Content-Type", "application/json")

	if m.rejectWith != nil {
		w.WriteHeader(m.rejectWith.StatusCode)
		_ = json.NewEncoder(w).Encode(m.rejectWith)
		return
	}

	if form["signature"] == "" || form["X-MBX-APIKEY"] == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(&types.APIError{Code: types.ErrCodeInvalidSignature, Message: "Signature for this request is not valid."})
		return
	}

	qty, _ := decimal.NewFromString(form["quantity"])
	price, _ := decimal.NewFromString(form["price"])

	resp := types.OrderResponse{
		OrderID:       m.nextOrderID,
		ClientOrderID: form["newClientOrderId"],
		Symbol:        form["symbol"],
		Status:        "NEW",
		Side:          form["side"],
		Type:          form["type"],
		TimeInForce:   form["timeInForce"],
		Price:         price,
		OrigQty:       qty,
		ExecutedQty:   decimal.Zero,
	}
	m.nextOrderID++

	_ = json.NewEncoder(w).Encode(resp)
}

// RejectOrders makes every order request fail with apiErr. Pass nil to accept again.
func (m *MockFuturesAPI) RejectOrders(apiErr *types.APIError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectWith = apiErr
}

// OrderForms returns the parameters of every order request received.
func (m *MockFuturesAPI) OrderForms() []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	forms := make([]map[string]string, len(m.orderForms))
	copy(forms, m.orderForms)
	return forms
}

// ExchangeInfoCalls returns how many times exchangeInfo was requested.
func (m *MockFuturesAPI) ExchangeInfoCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeCalls
}

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/invoice/internal/api"
	"github.com/samandr77/microservices/invoice/internal/clients/zoho"
	"github.com/samandr77/microservices/invoice/internal/entity"
	"github.com/samandr77/microservices/invoice/internal/mocks"
	"github.com/samandr77/microservices/invoice/internal/service"
	"github.com/samandr77/microservices/invoice/pkg/config"
)

const apiKey = "secret"

// fakeZoho imitates the Zoho accounts and invoice endpoints used by the service.
type fakeZoho struct {
	items          string
	tokenStatus    int
	invoiceStatus  int
	contactCreates atomic.Int32
	invoiceCalls   atomic.Int32
	tokenCalls     atomic.Int32
	invoiceBodies  chan map[string]any
}

func newFakeZoho() *fakeZoho {
	return &fakeZoho{
		items: `{"code":0,"items":[
			{"item_id":"I1","name":"Consulting","rate":9.5,"unit":"hr","status":"active"},
			{"item_id":"I2","name":"Legacy","rate":3,"status":"inactive"}
		]}`,
		tokenStatus:   http.StatusOK,
		invoiceStatus: http.StatusCreated,
		invoiceBodies: make(chan map[string]any, 1),
	}
}

func (f *fakeZoho) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		w.WriteHeader(f.tokenStatus)

		if f.tokenStatus == http.StatusOK {
			_, _ = io.WriteString(w, `{"access_token":"T2","expires_in":3600}`)
		} else {
			_, _ = io.WriteString(w, `{"error":"invalid_client"}`)
		}
	})

	mux.HandleFunc("GET /api/v3/items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, f.items)
	})

	mux.HandleFunc("GET /api/v3/contacts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "known@example.com" {
			_, _ = io.WriteString(w, `{"contacts":[{"contact_id":"C0"}]}`)
			return
		}

		_, _ = io.WriteString(w, `{"contacts":[]}`)
	})

	mux.HandleFunc("POST /api/v3/contacts", func(w http.ResponseWriter, r *http.Request) {
		f.contactCreates.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"contact":{"contact_id":"C1"}}`)
	})

	mux.HandleFunc("POST /api/v3/invoices", func(w http.ResponseWriter, r *http.Request) {
		f.invoiceCalls.Add(1)

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			f.invoiceBodies <- body
		}

		w.WriteHeader(f.invoiceStatus)

		if f.invoiceStatus == http.StatusCreated {
			_, _ = io.WriteString(w, `{"code":0,"invoice":{"invoice_id":"INV1","invoice_number":"INV-000001","total":19}}`)
		} else {
			_, _ = io.WriteString(w, `{"code":1002,"message":"customer does not exist"}`)
		}
	})

	return mux
}

type testAPI struct {
	url  string
	sess *mocks.MockTokenSession
}

func newTestAPI(t *testing.T, f *fakeZoho, rec entity.TokenRecord, apiKeyEnabled bool) testAPI {
	t.Helper()

	zohoServer := httptest.NewServer(f.handler(t))
	t.Cleanup(zohoServer.Close)

	ctrl := gomock.NewController(t)
	store := mocks.NewMockTokenStore(ctrl)
	sess := mocks.NewMockTokenSession(ctrl)

	store.EXPECT().Acquire(gomock.Any()).Return(sess, nil).AnyTimes()
	sess.EXPECT().Release().AnyTimes()
	sess.EXPECT().Token(gomock.Any()).Return(rec, nil).AnyTimes()

	client := zoho.NewClient(config.Zoho{
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		OrganizationID: "org-1",
		AccountsURL:    zohoServer.URL,
		APIURL:         zohoServer.URL + "/api/v3",
		Timeout:        5 * time.Second,
	})

	s := service.New(service.NewTokens(store, client), client, nil)

	router := api.NewRouter(
		api.NewHandler(s),
		api.NewMiddleware([]string{"https://app.example.com"}, apiKeyEnabled, apiKey),
		"/api/v1",
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return testAPI{url: server.URL, sess: sess}
}

func validToken() entity.TokenRecord {
	return entity.TokenRecord{
		RefreshToken:      "R",
		AccessToken:       "T1",
		AccessTokenExpiry: time.Now().Add(time.Hour),
	}
}

func doJSON(t *testing.T, method, url, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reqBody)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var got map[string]any

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &got), string(b))
	}

	return resp.StatusCode, got
}

const invoiceRequest = `{
	"customer_info": {"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com"},
	"items": [{"item_id": "I1", "quantity": 2}],
	"notes": "thanks"
}`

func TestHandler_Root(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), false)

	code, got := doJSON(t, http.MethodGet, a.url+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{"message": "Zoho Invoice API is running"}, got)
}

func TestHandler_Items(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), false)

	code, got := doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{
		"items": []any{
			map[string]any{
				"item_id":     "I1",
				"name":        "Consulting",
				"description": "",
				"rate":        9.5,
				"unit":        "hr",
				"status":      "active",
			},
		},
	}, got)
}

func TestHandler_Items_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	a := newTestAPI(t, f, entity.TokenRecord{RefreshToken: "R"}, false)

	a.sess.EXPECT().UpdateAccessToken(gomock.Any(), "T2", gomock.Any(), gomock.Any()).Return(nil)

	code, _ := doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, f.tokenCalls.Load())
}

func TestHandler_Items_AuthError(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	f.tokenStatus = http.StatusBadRequest

	a := newTestAPI(t, f, entity.TokenRecord{RefreshToken: "R"}, false)

	code, got := doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", nil)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "Failed to fetch items", got["message"])
	require.Contains(t, got["detail"], "invalid_client")
}

func TestHandler_ItemRates(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), false)

	code, got := doJSON(t, http.MethodPost, a.url+"/api/v1/item-rates", `["I1","I2","I1"]`, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{
		"items": []any{
			map[string]any{"item_id": "I1", "rate": 9.5},
			map[string]any{"item_id": "I2", "rate": float64(3)},
			map[string]any{"item_id": "I1", "rate": 9.5},
		},
	}, got)

	code, got = doJSON(t, http.MethodPost, a.url+"/api/v1/item-rates", `["I1","NOPE"]`, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, got["message"], "NOPE")
}

func TestHandler_CreateInvoice(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	a := newTestAPI(t, f, validToken(), false)

	code, got := doJSON(t, http.MethodPost, a.url+"/api/v1/create-invoice", invoiceRequest, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{
		"message": "Invoice created successfully",
		"invoice": map[string]any{
			"invoice_id":     "INV1",
			"invoice_number": "INV-000001",
			"total":          float64(19),
		},
	}, got)

	require.EqualValues(t, 1, f.contactCreates.Load())
	require.EqualValues(t, 1, f.invoiceCalls.Load())

	require.Equal(t, map[string]any{
		"customer_id": "C1",
		"line_items": []any{
			map[string]any{"item_id": "I1", "quantity": float64(2), "rate": 9.5},
		},
		"notes": "thanks",
	}, <-f.invoiceBodies)
}

func TestHandler_CreateInvoice_ExistingCustomer(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	a := newTestAPI(t, f, validToken(), false)

	body := strings.Replace(invoiceRequest, "jane@example.com", "known@example.com", 1)

	code, _ := doJSON(t, http.MethodPost, a.url+"/api/v1/create-invoice", body, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 0, f.contactCreates.Load())
	require.Equal(t, "C0", (<-f.invoiceBodies)["customer_id"])
}

func TestHandler_CreateInvoice_UnknownItem(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	a := newTestAPI(t, f, validToken(), false)

	body := strings.Replace(invoiceRequest, `"I1"`, `"UNKNOWN"`, 1)

	code, got := doJSON(t, http.MethodPost, a.url+"/api/v1/create-invoice", body, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, got["message"], "UNKNOWN")
	require.Contains(t, got["detail"], "UNKNOWN")
	require.EqualValues(t, 0, f.invoiceCalls.Load())
}

func TestHandler_CreateInvoice_RemoteError(t *testing.T) {
	t.Parallel()

	f := newFakeZoho()
	f.invoiceStatus = http.StatusBadRequest

	a := newTestAPI(t, f, validToken(), false)

	code, got := doJSON(t, http.MethodPost, a.url+"/api/v1/create-invoice", invoiceRequest, nil)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "Failed to create invoice", got["message"])
	require.Contains(t, got["detail"], "customer does not exist")
}

func TestHandler_CreateInvoice_BadRequest(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), false)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: `{"customer_info":`, code: http.StatusBadRequest},
		{name: "missing email", body: `{"customer_info":{"first_name":"A","last_name":"B"},"items":[{"item_id":"I1","quantity":1}]}`, code: http.StatusUnprocessableEntity},
		{name: "no items", body: `{"customer_info":{"first_name":"A","last_name":"B","email":"a@b.c"},"items":[]}`, code: http.StatusUnprocessableEntity},
		{name: "zero quantity", body: `{"customer_info":{"first_name":"A","last_name":"B","email":"a@b.c"},"items":[{"item_id":"I1","quantity":0}]}`, code: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _ := doJSON(t, http.MethodPost, a.url+"/api/v1/create-invoice", tt.body, nil)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestMiddleware_APIKeyAuth(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), true)

	code, _ := doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", map[string]string{"X-Api-Key": "wrong"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", map[string]string{"X-Api-Key": apiKey})
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, http.MethodGet, a.url+"/api/v1/items", "", map[string]string{"Authorization": "Bearer " + apiKey})
	require.Equal(t, http.StatusOK, code)

	// Liveness stays open.
	code, _ = doJSON(t, http.MethodGet, a.url+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestMiddleware_Cors(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, newFakeZoho(), validToken(), false)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, a.url+"/api/v1/create-invoice", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	req, err = http.NewRequestWithContext(context.Background(), http.MethodGet, a.url+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMiddleware_Recover(t *testing.T) {
	t.Parallel()

	mw := api.NewMiddleware([]string{"*"}, false, "")

	h := mw.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "boom")
}

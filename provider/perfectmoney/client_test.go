package perfectmoney

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mstgnz/perfectmoney/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerStub struct {
	mu       sync.Mutex
	path     string
	form     url.Values
	status   int
	body     string
	requests int
}

func (s *providerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	s.path = r.URL.Path
	_ = r.ParseForm()
	s.form = r.PostForm

	if s.status != 0 {
		w.WriteHeader(s.status)
	}
	fmt.Fprint(w, s.body)
}

func newTestClient(t *testing.T, stub *providerStub, opts ...Option) (*Client, *recordingRecorder) {
	t.Helper()

	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	config, err := ParseConfig(testConf(server.URL))
	require.NoError(t, err)

	l, _ := testLogger()
	recorder := &recordingRecorder{}
	opts = append([]Option{WithLogger(l), WithCallRecorder(recorder)}, opts...)

	return newClient("perfectmoney", config, buildOptions(opts)), recorder
}

func TestClient_CallParsesHiddenInputs(t *testing.T) {
	stub := &providerStub{body: `<html><input name='BALANCE' type='hidden' value='12.34'></html>`}
	client, recorder := newTestClient(t, stub)

	values, err := client.Call(context.Background(), "balance", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"BALANCE": "12.34"}, values.Map())
	assert.Equal(t, "/acct/balance.asp", stub.path)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, provider.ResultSuccess, recorder.calls[0].Result)
	assert.Equal(t, http.StatusOK, recorder.calls[0].StatusCode)
	assert.Equal(t, "balance", recorder.calls[0].Script)
}

func TestClient_CallOrderAndDuplicates(t *testing.T) {
	stub := &providerStub{body: "<input name='B' type='hidden' value='1'>\n" +
		"<input name='A' type='hidden' value='2'><input name='B' type='hidden' value='3'>\n" +
		"<input name=\"C\" type=\"hidden\" value=\"4\">"}
	client, _ := newTestClient(t, stub)

	values, err := client.Call(context.Background(), "confirm", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, values.Keys(), "double-quoted tags are not part of the format")
	assert.Equal(t, "3", values.Get("B"))
	assert.Equal(t, "2", values.Get("A"))
}

func TestClient_CallNoMatches(t *testing.T) {
	stub := &providerStub{body: "<html><body>Maintenance</body></html>"}
	client, recorder := newTestClient(t, stub)

	values, err := client.Call(context.Background(), "balance", nil)
	assert.Nil(t, values)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallFailed)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
	assert.Equal(t, provider.ResultEmptyResponse, recorder.calls[0].Result)
}

func TestClient_CallNon2xx(t *testing.T) {
	stub := &providerStub{
		status: http.StatusInternalServerError,
		body:   `<input name='BALANCE' type='hidden' value='12.34'>`,
	}
	server := httptest.NewServer(stub)
	defer server.Close()

	config, err := ParseConfig(testConf(server.URL))
	require.NoError(t, err)

	l, logs := testLogger()
	client := newClient("perfectmoney", config, buildOptions([]Option{WithLogger(l)}))

	values, err := client.Call(context.Background(), "balance", nil)
	assert.Nil(t, values)
	assert.ErrorIs(t, err, ErrCallFailed)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, logs.String(), "status_code: 500")
}

func TestClient_CallTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	apiURL := server.URL
	server.Close()

	config, err := ParseConfig(testConf(apiURL))
	require.NoError(t, err)

	l, _ := testLogger()
	recorder := &recordingRecorder{}
	client := newClient("perfectmoney", config, buildOptions([]Option{WithLogger(l), WithCallRecorder(recorder)}))

	_, err = client.Call(context.Background(), "balance", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallFailed)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "balance", transportErr.Script)
	assert.Equal(t, provider.ResultTransportError, recorder.calls[0].Result)
}

func TestClient_CallOversizedAnswer(t *testing.T) {
	body := "<input name='U1' type='hidden' value='12.34'>" + strings.Repeat(" ", 1<<20)
	client, recorder := newTestClient(t, &providerStub{body: body})

	values, err := client.Call(context.Background(), "balance", nil)
	assert.Nil(t, values, "a truncated answer is never parsed")
	assert.ErrorIs(t, err, ErrCallFailed)
	assert.ErrorIs(t, err, provider.ErrResponseTooLarge)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, provider.ResultTransportError, recorder.calls[0].Result)
}

func TestClient_CallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	conf := testConf(server.URL)
	conf["timeout"] = "50ms"
	config, err := ParseConfig(conf)
	require.NoError(t, err)

	l, _ := testLogger()
	client := newClient("perfectmoney", config, buildOptions([]Option{WithLogger(l)}))

	_, err = client.Call(context.Background(), "balance", nil)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestClient_CallMergesDefaults(t *testing.T) {
	stub := &providerStub{body: `<input name='OK' type='hidden' value='1'>`}
	client, _ := newTestClient(t, stub)

	_, err := client.Call(context.Background(), "history", map[string]string{
		"startmonth": "1",
		"PassPhrase": "override",
	})
	require.NoError(t, err)

	assert.Equal(t, "/acct/history.asp", stub.path)
	assert.Equal(t, "100001", stub.form.Get("AccountID"))
	assert.Equal(t, "override", stub.form.Get("PassPhrase"), "caller keys are merged on top of defaults")
	assert.Equal(t, "1", stub.form.Get("startmonth"))
}

func TestClient_CallProviderError(t *testing.T) {
	stub := &providerStub{body: `<input name='ERROR' type='hidden' value='Invalid Payee_Account'>`}
	client, recorder := newTestClient(t, stub)

	values, err := client.Call(context.Background(), "confirm", nil)
	require.NoError(t, err, "a provider ERROR field is still a parsed answer")

	var perr *ProviderError
	require.ErrorAs(t, values.ProviderError(), &perr)
	assert.Equal(t, "Invalid Payee_Account", perr.Message)
	assert.Equal(t, provider.ResultProviderError, recorder.calls[0].Result)
}

func TestClient_Balance(t *testing.T) {
	stub := &providerStub{body: `<input name='U1' type='hidden' value='100.50'>` +
		`<input name='E2' type='hidden' value='3.00'>`}
	client, _ := newTestClient(t, stub)

	values, err := client.Balance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/acct/balance.asp", stub.path)
	assert.Equal(t, []string{"U1", "E2"}, values.Keys())
	assert.Equal(t, "100001", stub.form.Get("AccountID"))
	assert.Equal(t, "passphrase", stub.form.Get("PassPhrase"))
}

func TestClient_Transfer(t *testing.T) {
	tests := []struct {
		name      string
		paymentID string
		memo      string
	}{
		{name: "without_optional_fields"},
		{name: "with_payment_id", paymentID: "INV-42"},
		{name: "with_memo", memo: "Order #42 refund"},
		{name: "with_both", paymentID: "INV-42", memo: "Order #42 refund"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &providerStub{body: `<input name='PAYMENT_BATCH_NUM' type='hidden' value='987'>`}
			client, _ := newTestClient(t, stub)

			values, err := client.Transfer(context.Background(), "U7654321", decimal.RequireFromString("10.5"), tt.paymentID, tt.memo)
			require.NoError(t, err)
			assert.Equal(t, "987", values.Get("PAYMENT_BATCH_NUM"))

			assert.Equal(t, "/acct/confirm.asp", stub.path)
			assert.Equal(t, "U1", stub.form.Get("Payer_Account"))
			assert.Equal(t, "U7654321", stub.form.Get("Payee_Account"))
			assert.Equal(t, "10.5", stub.form.Get("Amount"))
			assert.Equal(t, "1", stub.form.Get("PAY_IN"))

			_, hasPaymentID := stub.form["PAYMENT_ID"]
			_, hasMemo := stub.form["Memo"]
			assert.Equal(t, tt.paymentID != "", hasPaymentID)
			assert.Equal(t, tt.memo != "", hasMemo)
			if tt.paymentID != "" {
				assert.Equal(t, tt.paymentID, stub.form.Get("PAYMENT_ID"))
			}
			if tt.memo != "" {
				assert.Equal(t, tt.memo, stub.form.Get("Memo"))
			}
		})
	}
}

func TestParseHiddenInputs(t *testing.T) {
	values := parseHiddenInputs(`<input name='EMPTY' type='hidden' value=''>`)
	assert.Equal(t, 1, values.Len())
	v, ok := values.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	assert.Equal(t, 0, parseHiddenInputs("").Len())
	assert.Equal(t, 0, parseHiddenInputs(`<input name='X' type='text' value='1'>`).Len())
}

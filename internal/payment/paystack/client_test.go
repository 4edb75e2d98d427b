package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

func TestClient_VerifyPaymentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/Payment--abc", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"amount":5000}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	ok, data, err := c.VerifyPayment(context.Background(), "Payment--abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"amount":5000}`, string(data))
}

func TestClient_VerifyPaymentDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"not found","data":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	ok, _, err := c.VerifyPayment(context.Background(), "Payment--missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClient_VerifyPaymentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"status":false,"message":"downstream unavailable"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	_, _, err := c.VerifyPayment(context.Background(), "Payment--abc")
	require.Error(t, err)
	require.True(t, customErrors.IsUpstreamProvider(err))
}

package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "2500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Publication Fee", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "Deep Learning for Tides", r.PostForm.Get("line_items[0][price_data][product_data][description]"))
		assert.Equal(t, "author@example.edu", r.PostForm.Get("customer_email"))
		assert.Equal(t, "sub-123", r.PostForm.Get("metadata[submissionId]"))
		assert.Equal(t, "https://journal.test/payment/success", r.PostForm.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/pay/cs_test_abc"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", srv.URL, "https://journal.test/payment/success", "https://journal.test/payment/cancel")

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		SubmissionID:  "sub-123",
		Title:         "Deep Learning for Tides",
		CustomerEmail: "author@example.edu",
		AmountCents:   2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", session.URL)
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid currency"}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", srv.URL, "s", "c")

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{AmountCents: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateCheckoutSession_MissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_test_abc"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", srv.URL, "s", "c")

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{AmountCents: 100})
	assert.Error(t, err)
}

func TestCreateCheckoutSession_NotConfigured(t *testing.T) {
	client := NewClient("", "https://api.stripe.com", "s", "c")

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{AmountCents: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

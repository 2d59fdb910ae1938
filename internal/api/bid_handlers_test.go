package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBidBody(slug string, amount int64) map[string]any {
	return map[string]any{
		"lion_slug": slug,
		"amount":    amount,
		"bidder":    "Alex Bidder",
		"email":     "alex@example.com",
		"phone":     "+44 20 7946 0000",
	}
}

func TestSubmitBid_Success(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	lion := ts.createLion(t, token, map[string]any{
		"name":         "Aurora",
		"starting_bid": 9800,
	})

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", validBidBody(lion.Slug, 9801))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[SubmitBidResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, int64(9801), envelope.Data.CurrentBid)
	assert.Equal(t, lion.Slug, envelope.Data.LionSlug)
	assert.NotEmpty(t, envelope.Data.BidID)
}

func TestSubmitBid_WithoutPhone(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	lion := ts.createLion(t, token, map[string]any{"name": "Aurora"})

	// Phone is optional on the form.
	body := validBidBody(lion.Slug, 150)
	delete(body, "phone")

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[SubmitBidResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, int64(150), envelope.Data.CurrentBid)
}

func TestSubmitBid_AmountTooLow(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	lion := ts.createLion(t, token, map[string]any{
		"name":         "Aurora",
		"starting_bid": 9800,
	})

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", validBidBody(lion.Slug, 9800))
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "AMOUNT_TOO_LOW", envelope.Code)
}

func TestSubmitBid_SlugMismatch(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	aurora := ts.createLion(t, token, map[string]any{"name": "Aurora"})
	verve := ts.createLion(t, token, map[string]any{"name": "Verve"})

	resp := ts.api.Post("/api/v1/lions/"+aurora.Slug+"/bids", validBidBody(verve.Slug, 100))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INTEGRITY", envelope.Code)
}

func TestSubmitBid_WindowClosed(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	ended := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	lion := ts.createLion(t, token, map[string]any{
		"name":            "Aurora",
		"bidding_ends_at": ended,
	})

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", validBidBody(lion.Slug, 20000))
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "WINDOW_CLOSED", envelope.Code)
}

func TestSubmitBid_UnknownLion(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/lions/no-such-lion/bids", validBidBody("no-such-lion", 100))
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestSubmitBid_ValidationFailure(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	lion := ts.createLion(t, token, map[string]any{"name": "Aurora"})

	body := validBidBody(lion.Slug, 100)
	body["email"] = "not-an-email"

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", body)
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestListLionBids_StripsContactDetails(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.login(t)

	lion := ts.createLion(t, token, map[string]any{"name": "Aurora"})

	resp := ts.api.Post("/api/v1/lions/"+lion.Slug+"/bids", validBidBody(lion.Slug, 150))
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/lions/" + lion.Slug + "/bids")
	require.Equal(t, http.StatusOK, resp.Code)

	assert.NotContains(t, resp.Body.String(), "alex@example.com")
	assert.NotContains(t, resp.Body.String(), "7946")

	var envelope testEnvelope[ListLionBidsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Bids, 1)
	assert.Equal(t, int64(150), envelope.Data.Bids[0].Amount)
	assert.Equal(t, "Alex Bidder", envelope.Data.Bids[0].Bidder)
}

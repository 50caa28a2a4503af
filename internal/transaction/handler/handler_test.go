package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedflow/internal/contract"
	jwttoken "deedflow/internal/platform/jwt"
	"deedflow/internal/transaction"
	"deedflow/pkg/testutil"
)

type fixture struct {
	router http.Handler
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := transaction.NewService(
		transaction.NewInMemoryStore(),
		transaction.NewShardedLocker(),
		contract.NewTemplateGenerator(),
		logger,
	)

	jwtService := jwttoken.NewService("test-signing-key", "deedflow")
	token, err := jwtService.GenerateToken("agent-1", "agent", time.Minute)
	require.NoError(t, err)

	h := New(service, logger, nil, jwtService)
	r := chi.NewRouter()
	h.Register(r)
	return &fixture{router: r, token: token}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+f.token)
	return testutil.DoRequest(f.router, req)
}

func (f *fixture) initiate(t *testing.T) map[string]any {
	t.Helper()
	w := f.do(t, http.MethodPost, "/v1/transactions", InitiateRequest{
		Property: PropertyPayload{ID: "prop-1", Address: "12 Harbor Lane", Price: 350000},
		Seller:   PartyPayload{ID: "seller-1", Name: "Ada Vendor"},
		Buyer:    PartyPayload{ID: "buyer-1", Name: "Ben Acquirer"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeResponse(t, w)
}

func TestInitiateReturnsDocumentsPending(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)

	assert.Equal(t, "DOCUMENTS_PENDING", body["phase"])
	assert.NotEmpty(t, body["id"])
	contractBody, ok := body["contract"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, contract.TemplateVersion, contractBody["template_version"])
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/transactions", InitiateRequest{})
	w := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReadsAreOpen(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/v1/transactions/"+id, nil)
	w := testutil.DoRequest(f.router, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownTransactionMapsTo404(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/v1/transactions/txn_missing", nil)
	testutil.AssertErrorCode(t, w, http.StatusNotFound, "not_found")
}

func TestInvalidStateMapsTo400WithVerbatimMessage(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	// Payments are not legal while documents are pending.
	w := f.do(t, http.MethodPost, "/v1/transactions/"+id+"/payments", ProcessPaymentRequest{
		Amount: 1000, Payer: "buyer-1", Method: "BANK_TRANSFER", Reference: "wire-1",
	})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "invalid_state")
	errBody := testutil.DecodeResponse(t, w)
	assert.Contains(t, errBody["message"], "DOCUMENTS_PENDING")
	assert.Contains(t, errBody["message"], "PAYMENT_PENDING")
}

func TestUnknownDocumentKindRejected(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	w := f.do(t, http.MethodPost, "/v1/transactions/"+id+"/documents", UploadDocumentRequest{
		Kind: "NAPKIN_SKETCH", Uploader: "uploader-1",
	})
	testutil.AssertErrorCode(t, w, http.StatusBadRequest, "invalid_input")
}

func TestFullFlowOverHTTP(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	w := f.do(t, http.MethodPost, "/v1/transactions/"+id+"/escrow", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, kind := range []string{"TITLE_DEED", "SELLER_IDENTITY", "BUYER_IDENTITY", "PURCHASE_AGREEMENT"} {
		w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/documents", UploadDocumentRequest{
			Kind: kind, Uploader: "uploader-1",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		uploaded := testutil.DecodeResponse(t, w)
		docs := uploaded["documents"].([]any)
		docID := docs[len(docs)-1].(map[string]any)["id"].(string)

		w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/documents/"+docID+"/verify", VerifyDocumentRequest{Verifier: "notary-1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	state := f.do(t, http.MethodGet, "/v1/transactions/"+id, nil)
	assert.Equal(t, "PAYMENT_PENDING", testutil.DecodeResponse(t, state)["phase"])

	w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/payments", ProcessPaymentRequest{
		Amount: 350000, Payer: "buyer-1", Method: "ESCROW", Reference: "esc-ref",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paid := testutil.DecodeResponse(t, w)
	payID := paid["payments"].([]any)[0].(map[string]any)["id"].(string)

	w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/payments/"+payID+"/confirm", ConfirmPaymentRequest{Confirmer: "bank-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "OWNERSHIP_TRANSFER_PENDING", testutil.DecodeResponse(t, w)["phase"])

	w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/complete", ActorRequest{Actor: "notary-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	final := testutil.DecodeResponse(t, w)
	assert.Equal(t, "COMPLETED", final["phase"])
	escrow := final["escrow"].(map[string]any)
	assert.Equal(t, true, escrow["released"])
	assert.Equal(t, float64(350000), escrow["balance"])

	audit := f.do(t, http.MethodGet, "/v1/transactions/"+id+"/audit", nil)
	require.Equal(t, http.StatusOK, audit.Code)
	events := testutil.DecodeResponse(t, audit)["events"].([]any)
	assert.GreaterOrEqual(t, len(events), 15)
}

func TestActorFallsBackToTokenSubject(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	// Empty body: the escrow open is attributed to the token subject.
	w := f.do(t, http.MethodPost, "/v1/transactions/"+id+"/escrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	audit := f.do(t, http.MethodGet, "/v1/transactions/"+id+"/audit", nil)
	events := testutil.DecodeResponse(t, audit)["events"].([]any)
	last := events[len(events)-1].(map[string]any)
	assert.Equal(t, "ESCROW_OPENED", last["action"])
	assert.Equal(t, "agent-1", last["actor"])
}

func TestDisputeOnCancelledMapsTo409(t *testing.T) {
	f := newFixture(t)
	body := f.initiate(t)
	id := body["id"].(string)

	w := f.do(t, http.MethodPost, "/v1/transactions/"+id+"/cancel", ReasonRequest{Actor: "buyer-1", Reason: "changed mind"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/v1/transactions/"+id+"/dispute", ReasonRequest{Actor: "seller-1", Reason: "still want the sale"})
	testutil.AssertErrorCode(t, w, http.StatusConflict, "conflict")
}

func TestListReturnsSummaries(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.initiate(t)

	w := f.do(t, http.MethodGet, "/v1/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.DecodeResponse(t, w)["transactions"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "DOCUMENTS_PENDING", first["phase"])
	assert.Equal(t, "prop-1", first["property_id"])
}

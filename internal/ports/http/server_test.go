package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	jose "gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"

	"medrecord-registry/internal/app"
	"medrecord-registry/internal/audit"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/oracle"
	"medrecord-registry/internal/registry"
	"medrecord-registry/internal/signkeys"
	"medrecord-registry/internal/twofactor"
)

const (
	adminID   = model.Identity("admin")
	ownerID   = model.Identity("owner")
	doctorID  = model.Identity("doctor-d")
	patientID = model.Identity("patient-p")
)

var tokenKey = []byte("0123456789abcdef0123456789abcdef")

type fakeOracle struct{}

func (fakeOracle) RequestCheck(context.Context, oracle.JobSpec) (string, error) {
	return "req-1", nil
}

type fakeAuditLog struct{}

func (fakeAuditLog) GetPatientEvents(context.Context, string) ([]model.Event, error) {
	return nil, nil
}

func (fakeAuditLog) GetActorEvents(context.Context, string) ([]model.Event, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*mux.Router, signkeys.UserKeys) {
	t.Helper()

	oracleKeys, err := signkeys.GenerateKeys()
	require.NoError(t, err)

	logger := zap.NewNop()
	gate := twofactor.NewGate(logger, audit.NewNop(), fakeOracle{}, oracleKeys.Address(), time.Minute)
	reg := registry.New(logger, audit.NewNop(), gate, registry.Params{
		Admin: adminID,
		Owner: ownerID,
	})

	a := app.NewApp(logger, reg, fakeAuditLog{})
	ser := NewServer(logger, a, ":0", oracleKeys.Address(), oracleKeys.PublicHex())

	router := mux.NewRouter()
	ser.registerHandlers(router)

	return router, oracleKeys
}

func bearerFor(t *testing.T, identity model.Identity) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: tokenKey}, nil)
	require.NoError(t, err)

	raw, err := jwt.Signed(signer).Claims(jwt.Claims{Subject: identity.String()}).CompactSerialize()
	require.NoError(t, err)

	return "Bearer " + raw
}

func doRequest(t *testing.T, router *mux.Router, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func fulfill(t *testing.T, router *mux.Router, keys signkeys.UserKeys, requestID string, allowed bool) *httptest.ResponseRecorder {
	t.Helper()

	return doRequest(t, router, http.MethodPost, "/oracle/fulfill", "", map[string]interface{}{
		"requestId": requestID,
		"allowed":   allowed,
		"signature": keys.Sign(FulfillmentDigest(requestID, allowed)),
	})
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/api/contract/activate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestFullRecordFlow(t *testing.T) {
	router, oracleKeys := newTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/api/contract/activate", bearerFor(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, router, http.MethodPut, "/api/doctors/"+doctorID.String(), bearerFor(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, router, http.MethodPost, "/api/checks", bearerFor(t, doctorID), map[string]string{
		"patientID":  patientID.String(),
		"customerId": "customer-7",
		"hashedPin":  "abcd",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var checkResp struct {
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &checkResp))
	require.Equal(t, "req-1", checkResp.RequestID)

	resp = fulfill(t, router, oracleKeys, checkResp.RequestID, true)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, router, http.MethodPost, "/api/records/"+patientID.String(), bearerFor(t, doctorID), map[string]string{
		"name":      "Alice",
		"diagnosis": "flu",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doRequest(t, router, http.MethodGet, "/api/records/"+patientID.String(), bearerFor(t, patientID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var record retrievedRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &record))
	assert.Equal(t, "Alice", record.Name)
	assert.Equal(t, "flu", record.Diagnosis)
	assert.True(t, record.Active)

	// the grant was consumed by the add, the update must be rejected
	resp = doRequest(t, router, http.MethodPut, "/api/records/"+patientID.String(), bearerFor(t, doctorID), map[string]string{
		"diagnosis": "cold",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestFulfillRejectsBadSignature(t *testing.T) {
	router, oracleKeys := newTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/api/contract/activate", bearerFor(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, router, http.MethodPut, "/api/doctors/"+doctorID.String(), bearerFor(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, router, http.MethodPost, "/api/checks", bearerFor(t, doctorID), map[string]string{
		"patientID":  patientID.String(),
		"customerId": "customer-7",
		"hashedPin":  "abcd",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	attackerKeys, err := signkeys.GenerateKeys()
	require.NoError(t, err)

	resp = fulfill(t, router, attackerKeys, "req-1", true)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// the request stays outstanding for the real oracle
	resp = fulfill(t, router, oracleKeys, "req-1", true)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestErrorKindMapping(t *testing.T) {
	router, _ := newTestRouter(t)

	// not the admin
	resp := doRequest(t, router, http.MethodPost, "/api/contract/activate", bearerFor(t, doctorID), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(t, router, http.MethodPost, "/api/contract/activate", bearerFor(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// activating twice conflicts with the lifecycle
	resp = doRequest(t, router, http.MethodPost, "/api/contract/activate", bearerFor(t, adminID), nil)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// privilege for a non-authorized doctor fails its precondition
	resp = doRequest(t, router, http.MethodPut, "/api/doctors/"+doctorID.String()+"/privilege", bearerFor(t, adminID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// missing record
	resp = doRequest(t, router, http.MethodGet, "/api/records/"+patientID.String(), bearerFor(t, adminID), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// too broad audit query
	resp = doRequest(t, router, http.MethodGet, "/api/audit", bearerFor(t, adminID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

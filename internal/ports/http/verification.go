package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/multierr"

	"medrecord-registry/internal/hashing"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/ports/http/middleware/auth"
	"medrecord-registry/internal/signkeys"
)

func (ser *server) requestCheck(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)

	var body struct {
		PatientID  string `json:"patientID"`
		CustomerID string `json:"customerId"`
		HashedPin  string `json:"hashedPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}

	var err error
	if body.PatientID == "" {
		err = multierr.Append(err, errors.New("patientID is missing"))
	}
	if body.CustomerID == "" {
		err = multierr.Append(err, errors.New("customerId is missing"))
	}
	if body.HashedPin == "" {
		err = multierr.Append(err, errors.New("hashedPin is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	requestID, err := ser.app.RequestCheck(r.Context(), caller,
		model.Identity(normalize(body.PatientID)), body.CustomerID, body.HashedPin)
	if err != nil {
		ser.respondError(w, err)
		return
	}

	ser.respondJSON(w, struct {
		RequestID string `json:"requestId"`
	}{RequestID: requestID})
}

// fulfillCheck is the oracle's one-shot callback. It is authenticated by
// a signature over the fulfillment digest instead of a bearer token.
func (ser *server) fulfillCheck(w http.ResponseWriter, r *http.Request) {

	var body struct {
		RequestID string `json:"requestId"`
		Allowed   *bool  `json:"allowed"`
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}

	var err error
	if body.RequestID == "" {
		err = multierr.Append(err, errors.New("requestId is missing"))
	}
	if body.Allowed == nil {
		err = multierr.Append(err, errors.New("allowed is missing"))
	}
	if body.Signature == "" {
		err = multierr.Append(err, errors.New("signature is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	digest := FulfillmentDigest(body.RequestID, *body.Allowed)
	if err := signkeys.Verify(ser.oraclePublicKey, digest, body.Signature); err != nil {
		ser.logger.Warn("fulfillment signature rejected: " + err.Error())
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("fulfillment signature rejected"))
		return
	}

	if err := ser.app.FulfillCheck(r.Context(), ser.oracleID, body.RequestID, *body.Allowed); err != nil {
		ser.respondError(w, err)
		return
	}
}

// FulfillmentDigest is what the oracle signs: the SHA-512 of
// "<requestId>|<allowed>".
func FulfillmentDigest(requestID string, allowed bool) []byte {
	return []byte(hashing.CalculateFromStr(requestID + "|" + strconv.FormatBool(allowed)))
}

// Package oracle talks to the external verification service. The service
// receives a job spec with the customer identifier and a pre-hashed PIN,
// performs the actual check out of band and calls back into the
// verification port with the boolean result.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/fxamacker/cbor"
	"go.uber.org/zap"
)

const contentTypeCbor = "application/cbor"

// JobSpec is the payload of one verification run. The path selects the
// result field of the oracle's report.
type JobSpec struct {
	CustomerID string `cbor:"customerId"`
	HashedPin  string `cbor:"hashedPin"`
	Path       string `cbor:"path"`
}

// Client issues verification check requests and returns the opaque
// correlation identifier assigned by the oracle.
type Client interface {
	RequestCheck(ctx context.Context, job JobSpec) (requestID string, err error)
}

type HTTPClient struct {
	logger *zap.Logger
	addr   string
	jobID  string
	client *http.Client
}

// NewHTTPClient builds a client whose calls give up after the given
// timeout. The oracle is an external party and must not be waited on
// forever.
func NewHTTPClient(logger *zap.Logger, addr string, jobID string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		logger: logger,
		addr:   addr,
		jobID:  jobID,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) RequestCheck(ctx context.Context, job JobSpec) (string, error) {

	payload, err := cbor.Marshal(job, cbor.CanonicalEncOptions())
	if err != nil {
		return "", errors.New("failed to dump the job spec: " + err.Error())
	}

	url := fmt.Sprintf("http://%s/v1/jobs/%s/runs", c.addr, c.jobID)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	r.Header.Add("Content-Type", contentTypeCbor)

	resp, err := c.client.Do(r)
	if err != nil {
		return "", errors.New("check request failed: " + err.Error())
	}

	defer resp.Body.Close()
	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New("reading response error: " + err.Error())
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errors.New("status code: " + resp.Status + "; body: " + string(responseBody))
	}

	var unmarshalled struct {
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(responseBody, &unmarshalled); err != nil {
		return "", errors.New("failed to unmarshal the response: " + err.Error())
	}

	c.logger.Debug("check request accepted by the oracle", zap.String("requestID", unmarshalled.RequestID))

	return unmarshalled.RequestID, nil
}

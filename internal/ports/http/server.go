package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"medrecord-registry/internal/app"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/ports/http/middleware/auth"
	"medrecord-registry/internal/ports/http/middleware/cors"
)

type server struct {
	app        app.App
	httpServer *http.Server
	addr       string
	logger     *zap.Logger

	tokenValidator auth.TokenValidator

	oracleID        model.Identity
	oraclePublicKey string
}

func NewServer(logger *zap.Logger, a app.App, address string, oracleID model.Identity, oraclePublicKey string) *server {
	return &server{
		app:             a,
		addr:            address,
		logger:          logger,
		tokenValidator:  auth.NewTokenValidator(logger, auth.TokenParams{}),
		oracleID:        oracleID,
		oraclePublicKey: oraclePublicKey,
	}
}

func (ser *server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	// the oracle callback authenticates with a signature, not a token
	router.HandleFunc("/oracle/fulfill", ser.fulfillCheck).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(ser.tokenValidator.Middleware)

	api.HandleFunc("/contract/activate", ser.activateContract).Methods(http.MethodPost)
	api.HandleFunc("/contract/deactivate", ser.deactivateContract).Methods(http.MethodPost)

	api.HandleFunc("/doctors/{doctorID}", ser.authorizeDoctor).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{doctorID}", ser.deauthorizeDoctor).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{doctorID}/privilege", ser.grantPrivilege).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{doctorID}/privilege", ser.revokePrivilege).Methods(http.MethodDelete)

	api.HandleFunc("/records/{patientID}", ser.getRecord).Methods(http.MethodGet)
	api.HandleFunc("/records/{patientID}", ser.addRecord).Methods(http.MethodPost)
	api.HandleFunc("/records/{patientID}", ser.updateRecord).Methods(http.MethodPut)
	api.HandleFunc("/records/{patientID}/status", ser.setRecordStatus).Methods(http.MethodPut)

	api.HandleFunc("/consent/{doctorID}", ser.setConsent).Methods(http.MethodPut)

	api.HandleFunc("/checks", ser.requestCheck).Methods(http.MethodPost)

	api.HandleFunc("/treasury/deposit", ser.deposit).Methods(http.MethodPost)
	api.HandleFunc("/treasury/withdraw", ser.withdraw).Methods(http.MethodPost)

	api.HandleFunc("/audit", ser.getAuditTrail).Methods(http.MethodGet)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func (ser *server) Run() error {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	handler := cors.AddCorsPolicy(router)
	ser.httpServer = &http.Server{
		Handler: handler,
		Addr:    ser.addr,
	}

	return ser.httpServer.ListenAndServe()
}

func (ser *server) badRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a bad request error message: " + err.Error())
	}

	ser.logger.Warn(message)
}

func (ser *server) serverError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a server error message: " + err.Error())
	}

	ser.logger.Error(message)
}

// respondError maps the registry error kinds to HTTP statuses.
func (ser *server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch model.KindOf(err) {
	case model.KindUnauthorizedRole:
		status = http.StatusForbidden
	case model.KindInvalidLifecycleState:
		status = http.StatusConflict
	case model.KindPreconditionFailed:
		status = http.StatusUnprocessableEntity
	case model.KindRecordStateConflict:
		status = http.StatusNotFound
	default:
		if errors.Is(err, app.ErrSearchTooBroad) {
			status = http.StatusBadRequest
		}
	}

	w.WriteHeader(status)
	if _, writeErr := w.Write([]byte(err.Error())); writeErr != nil {
		ser.logger.Error("failed to write the error message: " + writeErr.Error())
	}

	ser.logger.Warn("request failed: " + err.Error())
}

func (ser *server) respondJSON(w http.ResponseWriter, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

func normalize(param string) string {
	return strings.ToLower(strings.TrimSpace(param))
}

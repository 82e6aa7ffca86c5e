package main

import (
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"medrecord-registry/internal/app"
	"medrecord-registry/internal/config"
	"medrecord-registry/internal/hashing"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/oracle"
	"medrecord-registry/internal/ports/http"
	"medrecord-registry/internal/registry"
	"medrecord-registry/internal/repository/mongodb"
	"medrecord-registry/internal/twofactor"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started")

	hashing.Initialize(logger)

	identities, err := config.LoadIdentities(config.GetIdentityFile())
	if err != nil {
		logger.Fatal("loading the identity seed failed: " + err.Error())
	}

	db, err := mongodb.NewConnection(logger, config.GetDbConnectionURI())
	if err != nil {
		logger.Fatal("failed to connect to the database: " + err.Error())
	}
	defer db.Disconnect()

	oracleID := model.Identity(identities.Oracle)
	oracleClient := oracle.NewHTTPClient(logger, config.GetOracleAddr(), config.GetOracleJobID(), config.GetRequestTimeout())
	gate := twofactor.NewGate(logger, db, oracleClient, oracleID, config.GetGrantTTL())

	doctors := make([]model.Identity, len(identities.Doctors))
	for i, doctor := range identities.Doctors {
		doctors[i] = model.Identity(doctor)
	}

	reg := registry.New(logger, db, gate, registry.Params{
		Admin:     model.Identity(identities.Admin),
		Owner:     model.Identity(identities.Owner),
		OracleFee: config.GetOracleFee(),
		Doctors:   doctors,
	})

	a := app.NewApp(logger, reg, db)

	ser := http.NewServer(logger, a, config.GetPort(), oracleID, identities.OraclePublicKey)
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(zap.DebugLevel)

	logger, err := config.Build()
	return logger.WithOptions(options...), err
}

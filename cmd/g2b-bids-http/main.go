// Command g2b-bids-http serves the bid search form, JSON API and MCP tools.
package main

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"g2b-bids/internal/config"
	"g2b-bids/internal/credential"
	"g2b-bids/internal/server"
)

func main() {
	log := logrus.New()

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	serviceKey, source, err := credential.NewResolver(cfg.SecretsFile).Resolve()
	if err != nil {
		log.WithError(err).Warn("service key lookup reported an error")
	}
	if serviceKey == "" {
		log.Warn("SERVICE_KEY not set; every search will report a configuration error until it is configured.")
	} else {
		log.WithField("source", source).Info("SERVICE_KEY loaded")
	}
	if cfg.Token == "" {
		log.Warn("API_TOKEN not set; endpoints will be open. Set API_TOKEN to secure.")
	}

	srv := server.New(server.Config{
		Token:       cfg.Token,
		ServiceKey:  serviceKey,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		CORSOrigins: cfg.CORSOrigins,
	}, log)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		log.Infof("Starting bid search server with TLS on %s", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, srv.Router())
	} else {
		log.Warn("TLS_CERT_FILE/TLS_KEY_FILE not set; serving plain HTTP. Run behind a TLS-terminating proxy when exposed.")
		log.Infof("Starting bid search server on %s", addr)
		err = http.ListenAndServe(addr, srv.Router())
	}
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

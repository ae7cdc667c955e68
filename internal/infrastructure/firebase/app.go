package firebase

import (
	"context"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"sheworks/pkg/config"
	"sheworks/pkg/logger"
)

// CredentialsOption picks the service account from the environment (production)
// or from a file (local development).
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)), nil
	}

	path := cfg.ServiceAccountPath
	if path == "" {
		path = "./firebase-service-account.json"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account file does not exist: %s", path)
	}

	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path), nil
}

func NewApp(ctx context.Context, cfg *config.Config, opt option.ClientOption) (*fbapp.App, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return app, nil
}

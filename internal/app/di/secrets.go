// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"trading_dashboard/internal/platform/secrets"
)

// SecretsFileKey は secrets.toml の場所を上書きする環境変数です。
const SecretsFileKey = "SECRETS_FILE"

// NewSecretSource returns the process environment chained before the
// secrets.toml file, so an exported variable always wins over the file.
func NewSecretSource() (secrets.Source, error) {
	path := secrets.DefaultFile
	if v, ok := (secrets.Env{}).Lookup(SecretsFileKey); ok {
		path = v
	}

	file, err := secrets.LoadTOMLFile(path)
	if err != nil {
		return nil, err
	}
	if len(file) > 0 {
		slog.Info("secrets file loaded", "path", path, "keys", len(file))
	}
	return secrets.Chain{secrets.Env{}, file}, nil
}

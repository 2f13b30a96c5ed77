package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config agrupa toda la configuración del servicio, cargada de env.
// Valores por defecto pensados para modo dev (store in-memory, sin staking).
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AppName   string `env:"APP_NAME" envDefault:"critter-market"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Si viene DSN, el store usa Postgres; si no, in-memory.
	DBDSN string `env:"DB_DSN"`

	// Límite de criaturas por cuenta (capacidad del owner index).
	MaxOwned int `env:"MAX_OWNED" envDefault:"16"`

	// Monto reservado por criatura contra el balance del dueño.
	// 0 = variante sin staking.
	StakePerCreature uint64 `env:"STAKE_PER_CREATURE" envDefault:"0"`

	// Política de compra: "min" (bid >= ask, se paga el bid) o
	// "exact" (se paga el ask publicado).
	PricePolicy string `env:"MARKET_PRICE_POLICY" envDefault:"min"`

	// Semilla del beacon determinista. Con la misma semilla y la misma
	// secuencia de acciones, el estado resultante es reproducible.
	BeaconSeed string `env:"BEACON_SEED" envDefault:"critter-market-dev"`

	// Mínimo existencial del ledger in-memory (keep-alive en transfer).
	LedgerExistentialMin uint64 `env:"LEDGER_EXISTENTIAL_MIN" envDefault:"1"`

	// Archivo YAML de bootstrap: cuentas con saldo y criaturas pre-cargadas.
	GenesisFile string `env:"GENESIS_FILE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

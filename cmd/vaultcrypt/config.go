package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hasbyte1/go-vault-crypto/encryption"
	"github.com/hasbyte1/go-vault-crypto/secret"
)

// Config contains every option vaultcrypt reads from its config file,
// environment (VAULTCRYPT_*) or flags.
type Config struct {
	// Encryption scheme: aes-128-cbc or blowfish-cbc.
	Scheme string `mapstructure:"scheme"`
	// Passphrase shared with the vault server.
	Passphrase string `mapstructure:"passphrase"`
	// Optional hex IV.  Blank draws a random IV (Blowfish) or uses the
	// default IV (AES).
	IV string `mapstructure:"iv"`
	// Reject out-of-range Blowfish pad bytes instead of treating them as zero.
	StrictPadding bool `mapstructure:"strict_padding"`
	// Full path to file to which logs will be written. Blank will write to stderr.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	Secret struct {
		// Number of symbols in generated secrets.
		Length int `mapstructure:"length"`
		// Symbols generated secrets are drawn from.
		Alphabet string `mapstructure:"alphabet"`
	} `mapstructure:"secret"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scheme", string(encryption.SchemeBlowfish))
	v.SetDefault("passphrase", "")
	v.SetDefault("iv", "")
	v.SetDefault("strict_padding", false)
	v.SetDefault("log_file_path", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("secret.length", secret.DefaultLength)
	v.SetDefault("secret.alphabet", secret.DefaultAlphabet)
}

// loadConfig reads configFile (if set) and the environment into a Config.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("vaultcrypt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := encryption.ValidateScheme(encryption.Scheme(c.Scheme)); err != nil {
		return err
	}
	if c.Secret.Length < 1 {
		return errors.New("secret.length must be at least 1")
	}
	return nil
}

// IVBytes decodes the configured IV, returning nil when none is set.
func (c *Config) IVBytes() ([]byte, error) {
	if c.IV == "" {
		return nil, nil
	}
	iv, err := encryption.DecodeHex(c.IV)
	if err != nil {
		return nil, fmt.Errorf("invalid iv: %w", err)
	}
	if want := encryption.IVSize(encryption.Scheme(c.Scheme)); len(iv) != want {
		return nil, fmt.Errorf("iv must be %d bytes for %s, got %d", want, c.Scheme, len(iv))
	}
	return iv, nil
}

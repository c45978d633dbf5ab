package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hasbyte1/go-vault-crypto/encryption"
	"github.com/hasbyte1/go-vault-crypto/encryption/blowfish"
	"github.com/hasbyte1/go-vault-crypto/secret"
)

// app carries the state shared by every subcommand once the root command has
// loaded its configuration.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *Config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "vaultcrypt",
		Short:         "Encrypt and decrypt vault credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to a vaultcrypt config file")
	flags.StringP("scheme", "s", "", "Encryption scheme (aes-128-cbc or blowfish-cbc)")
	flags.StringP("passphrase", "p", "", "Passphrase shared with the vault")
	flags.String("iv", "", "Hex IV to use instead of the scheme default")
	flags.Bool("strict-padding", false, "Reject out-of-range pad bytes when decrypting")
	flags.String("log-level", "", "Minimum log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("scheme", flags.Lookup("scheme"))
	_ = a.v.BindPFlag("passphrase", flags.Lookup("passphrase"))
	_ = a.v.BindPFlag("iv", flags.Lookup("iv"))
	_ = a.v.BindPFlag("strict_padding", flags.Lookup("strict-padding"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random secret",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}
	generateCmd.Flags().IntP("length", "l", 0, "Number of symbols")
	generateCmd.Flags().String("alphabet", "", "Symbols to draw from")
	_ = a.v.BindPFlag("secret.length", generateCmd.Flags().Lookup("length"))
	_ = a.v.BindPFlag("secret.alphabet", generateCmd.Flags().Lookup("alphabet"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "encrypt <plaintext>",
		Short: "Encrypt a credential into the scheme's wire form",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runEncrypt,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Decrypt a wire string back into the credential",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDecrypt,
	})
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "selftest",
		Short: "Run the Blowfish known-answer vectors",
		Args:  cobra.NoArgs,
		RunE:  a.runSelfTest,
	})
	return rootCmd
}

func (a *app) init() error {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.log.WithField("scheme", cfg.Scheme).Debug("configuration loaded")
	return nil
}

func (a *app) encryptor() (encryption.Encryptor, error) {
	opts := []encryption.Option{encryption.WithLogger(a.log)}
	if a.cfg.StrictPadding {
		opts = append(opts, encryption.WithStrictPadding())
	}
	return encryption.NewSeeded(encryption.Scheme(a.cfg.Scheme), a.cfg.Passphrase, opts...)
}

func (a *app) runEncrypt(cmd *cobra.Command, args []string) error {
	enc, err := a.encryptor()
	if err != nil {
		return err
	}
	iv, err := a.cfg.IVBytes()
	if err != nil {
		return err
	}

	var out string
	if iv != nil {
		out, err = enc.EncryptWithIV(args[0], iv)
	} else {
		out, err = enc.Encrypt(args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) runDecrypt(cmd *cobra.Command, args []string) error {
	enc, err := a.encryptor()
	if err != nil {
		return err
	}
	iv, err := a.cfg.IVBytes()
	if err != nil {
		return err
	}

	var out string
	if iv != nil {
		out, err = enc.DecryptWithIV(args[0], iv)
	} else {
		out, err = enc.Decrypt(args[0])
	}
	if err != nil {
		a.log.WithField("scheme", a.cfg.Scheme).WithError(err).Warn("decryption failed")
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	g := secret.New(
		secret.WithLength(a.cfg.Secret.Length),
		secret.WithAlphabet(a.cfg.Secret.Alphabet),
	)
	s, err := g.Generate()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

func (a *app) runSelfTest(cmd *cobra.Command, _ []string) error {
	if err := blowfish.SelfTest(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d vectors\n", len(blowfish.Vectors))
	return nil
}

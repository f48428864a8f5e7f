// Package credential resolves the data.go.kr service key.
package credential

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// Key is the name of the service key in the secret store and the environment.
const Key = "SERVICE_KEY"

// Source tells where a key was found.
type Source string

const (
	SourceSecrets Source = "secrets"
	SourceEnv     Source = "env"
	SourcePrompt  Source = "prompt"
	SourceNone    Source = "none"
)

// Resolver looks the key up in the secret store file, then the environment,
// then asks interactively. A nil Prompt skips the last step.
type Resolver struct {
	SecretsFile string
	Getenv      func(string) string
	Prompt      func() (string, error)
}

// NewResolver returns a resolver over secretsFile, the process environment
// and a terminal prompt.
func NewResolver(secretsFile string) *Resolver {
	return &Resolver{
		SecretsFile: secretsFile,
		Getenv:      os.Getenv,
		Prompt:      TerminalPrompt,
	}
}

// Resolve returns the first non-blank key and its source, or "" and
// SourceNone. Secret store read errors other than a missing file are
// returned alongside the fallback result.
func (r *Resolver) Resolve() (string, Source, error) {
	key, err := r.fromSecrets()
	if key != "" {
		return key, SourceSecrets, nil
	}

	if r.Getenv != nil {
		if v := strings.TrimSpace(r.Getenv(Key)); v != "" {
			return v, SourceEnv, err
		}
	}

	if r.Prompt != nil {
		v, perr := r.Prompt()
		if perr != nil {
			return "", SourceNone, errors.Join(err, perr)
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, SourcePrompt, err
		}
	}
	return "", SourceNone, err
}

func (r *Resolver) fromSecrets() (string, error) {
	if strings.TrimSpace(r.SecretsFile) == "" {
		return "", nil
	}
	if _, err := os.Stat(r.SecretsFile); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	v := viper.New()
	v.SetConfigFile(r.SecretsFile)
	if err := v.ReadInConfig(); err != nil {
		return "", err
	}
	return strings.TrimSpace(v.GetString(Key)), nil
}

// TerminalPrompt asks for the key with hidden input. It returns "" without
// asking when stdin is not a terminal.
func TerminalPrompt() (string, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return "", nil
	}
	var key string
	err := survey.AskOne(&survey.Password{
		Message: Key + " 직접 입력:",
		Help:    "공공데이터포털(data.go.kr)에서 발급받은 일반 인증키",
	}, &key)
	return key, err
}

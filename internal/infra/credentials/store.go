package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"farmaai/internal/infra"
	"farmaai/internal/sqlinline"
)

const (
	ProviderOpenAI = "openai"
)

// Credential is a provider API token and the model chosen with it.
type Credential struct {
	Token string
	Model string
}

// Store reads and writes provider credentials kept in integration_tokens.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// OpenAI returns the stored OpenAI credential. The zero Credential means
// nothing was saved.
func (s *Store) OpenAI(ctx context.Context) (Credential, error) {
	return s.Get(ctx, ProviderOpenAI)
}

func (s *Store) Get(ctx context.Context, provider string) (Credential, error) {
	var c Credential
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectProviderCredential, provider).Scan(&c.Token, &c.Model); err != nil {
		if infra.IsNoRows(err) {
			return Credential{}, nil
		}
		return Credential{}, err
	}
	c.Token = strings.TrimSpace(c.Token)
	c.Model = strings.TrimSpace(c.Model)
	return c, nil
}

// SetOpenAI saves the OpenAI key. An empty model clears any stored one.
func (s *Store) SetOpenAI(ctx context.Context, key, model string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("openai api key is required")
	}
	props := map[string]string{}
	if model = strings.TrimSpace(model); model != "" {
		props["model"] = model
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertProviderCredential, ProviderOpenAI, key, raw)
	return err
}

package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/driver"
)

// GraphStore keeps client profiles in Memgraph as (:Client)-[:HAS_FIELD]->(:Field).
type GraphStore struct {
	Driver        driver.GraphDriver
	UUIDGenerator func() string
	Now           func() time.Time
}

func NewGraphStore(d driver.GraphDriver) *GraphStore {
	return &GraphStore{
		Driver:        d,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *GraphStore) Save(ctx context.Context, p model.ClientProfile) error {
	nome := strings.TrimSpace(p.Nome)
	if nome == "" {
		return &model.InvalidInputError{Reason: "perfil sem nome"}
	}

	fields := make([]map[string]any, 0, len(p.DadosAdicionais))
	for i, f := range p.DadosAdicionais {
		fields = append(fields, map[string]any{
			"uuid":     s.UUIDGenerator(),
			"label":    f.Label,
			"value":    f.Value,
			"position": i,
		})
	}

	params := map[string]any{
		"uuid":     s.UUIDGenerator(),
		"name_key": common.Canonical(nome),
		"nome":     nome,
		"now":      s.Now().Format(time.RFC3339),
	}

	query := driver.SaveClientWithoutFieldsQuery
	if len(fields) > 0 {
		query = driver.SaveClientQuery
		params["fields"] = fields
	}

	if _, err := s.Driver.ExecuteQuery(ctx, query, params); err != nil {
		return fmt.Errorf("failed to save client %q: %w", nome, err)
	}
	return nil
}

func (s *GraphStore) Get(ctx context.Context, nome string) (*model.ClientProfile, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetClientQuery, map[string]any{
		"name_key": common.Canonical(nome),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load client %q: %w", nome, err)
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}

	p := &model.ClientProfile{DadosAdicionais: []model.LabeledField{}}
	for _, rec := range res.Records {
		if v, ok := rec.Get("nome"); ok {
			if n, ok := v.(string); ok && p.Nome == "" {
				p.Nome = n
			}
		}
		label, _ := rec.Get("label")
		value, _ := rec.Get("value")
		l, lok := label.(string)
		if !lok || l == "" {
			continue // client with no fields
		}
		v, _ := value.(string)
		p.DadosAdicionais = append(p.DadosAdicionais, model.LabeledField{Label: l, Value: v})
	}
	return p, nil
}

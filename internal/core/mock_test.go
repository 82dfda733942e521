package core

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver answers GetClientQuery from Records keyed by the folded name and
// records every query it receives.
type MockDriver struct {
	mu      sync.Mutex
	Records map[string][]*neo4j.Record
	Queries []string
	Params  []map[string]any
	Err     error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	key, _ := params["name_key"].(string)
	return neo4j.EagerResult{Records: m.Records[key]}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func fieldRecord(nome string, label, value any, position any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"nome", "label", "value", "position"},
		Values: []any{nome, label, value, position},
	}
}

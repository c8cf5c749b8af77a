package affordability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultModelName is the generation served when a request names none.
const DefaultModelName = "2024-excel"

// Model pairs an encoding schema with the coefficient table it was
// validated against. Immutable once loaded; safe to share across requests.
type Model struct {
	Name   string
	Schema *EncodingSchema
	Table  *CoefficientTable
}

// ModelInfo is the listing view of one model profile.
type ModelInfo struct {
	Name         string `json:"name"`
	Variables    int    `json:"variables"`
	Coefficients int    `json:"coefficients"`
	Source       string `json:"source"` // "builtin" or "file"
}

// modelFile is the on-disk JSON form of a model profile.
type modelFile struct {
	Name         string          `json:"name"`
	Schema       *EncodingSchema `json:"schema"`
	Coefficients []Coefficient   `json:"coefficients"`
}

// ModelStore resolves named model profiles: files under <dataDir>/models
// override the embedded generations of the same name. Every profile is
// validated on first load and cached; validation failure is permanent for
// the process, matching the fatal-at-startup contract for bad tables.
type ModelStore struct {
	dataDir string

	mu    sync.RWMutex
	cache map[string]*Model
}

// NewModelStore creates a store rooted at dataDir and verifies the embedded
// generations so a broken builtin fails startup, not the first request.
func NewModelStore(dataDir string) (*ModelStore, error) {
	s := &ModelStore{
		dataDir: dataDir,
		cache:   make(map[string]*Model),
	}

	for name, build := range builtinModels {
		m, err := buildModel(build())
		if err != nil {
			return nil, fmt.Errorf("builtin model %s: %w", name, err)
		}
		s.cache[name] = m
	}

	return s, nil
}

// LoadModel returns the model profile for name. A JSON file in the data
// directory shadows an embedded generation of the same name.
func (s *ModelStore) LoadModel(name string) (*Model, error) {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return nil, &ConfigError{Model: name, Reason: "invalid model name"}
	}

	path := s.modelPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.mu.RLock()
		m, ok := s.cache[name]
		s.mu.RUnlock()
		if !ok {
			return nil, &ConfigError{Model: name, Reason: "unknown model"}
		}
		return m, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	var mf modelFile
	if err := json.NewDecoder(file).Decode(&mf); err != nil {
		return nil, &ConfigError{Model: name, Reason: fmt.Sprintf("failed to decode model file: %v", err)}
	}
	if mf.Name == "" {
		mf.Name = name
	}

	m, err := buildModel(mf)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = m
	s.mu.Unlock()

	return m, nil
}

// SaveModel writes a model profile to the data directory.
func (s *ModelStore) SaveModel(m *Model) error {
	if err := os.MkdirAll(filepath.Join(s.dataDir, "models"), 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	file, err := os.Create(s.modelPath(m.Name))
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer file.Close()

	mf := modelFile{Name: m.Name, Schema: m.Schema, Coefficients: m.Table.Entries()}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(mf); err != nil {
		return fmt.Errorf("failed to encode model file: %w", err)
	}

	return nil
}

// Models lists the available profiles, embedded and on disk, sorted by name.
func (s *ModelStore) Models() []ModelInfo {
	infos := make(map[string]ModelInfo)

	s.mu.RLock()
	for name, m := range s.cache {
		infos[name] = ModelInfo{
			Name:         name,
			Variables:    len(m.Schema.Variables),
			Coefficients: m.Table.Len(),
			Source:       "builtin",
		}
	}
	s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dataDir, "models"))
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if m, err := s.LoadModel(name); err == nil {
				infos[name] = ModelInfo{
					Name:         name,
					Variables:    len(m.Schema.Variables),
					Coefficients: m.Table.Len(),
					Source:       "file",
				}
			}
		}
	}

	out := make([]ModelInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *ModelStore) modelPath(name string) string {
	return filepath.Join(s.dataDir, "models", name+".json")
}

func buildModel(mf modelFile) (*Model, error) {
	table, err := NewCoefficientTable(mf.Coefficients)
	if err != nil {
		return nil, err
	}
	if mf.Schema == nil {
		return nil, &ConfigError{Model: mf.Name, Reason: "model has no schema"}
	}
	if err := mf.Schema.Validate(table); err != nil {
		return nil, err
	}
	return &Model{Name: mf.Name, Schema: mf.Schema, Table: table}, nil
}

package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/fcrew/fcrew/types"
)

const templatesFile = "templates.json"

// Manager stores named templates, persisted as a JSON file under its
// storage directory. Mutations are saved immediately. An empty storage
// path keeps the manager purely in memory.
type Manager struct {
	templates   map[string]*Template
	storagePath string
	logger      *zap.Logger
}

// NewManager creates a manager. When storagePath is non-empty, the
// directory is created and existing templates are loaded from it.
func NewManager(storagePath string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		templates:   make(map[string]*Template),
		storagePath: storagePath,
		logger:      logger,
	}
	if storagePath != "" {
		if err := os.MkdirAll(storagePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create prompt storage directory: %w", err)
		}
		if err := m.load(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add creates a new template (initial version included) and persists.
func (m *Manager) Add(name, content, description string, variables []string) (*Template, error) {
	template := NewTemplate(name, content, description, variables)
	m.templates[name] = template
	if err := m.save(); err != nil {
		return nil, err
	}
	m.logger.Debug("template added", zap.String("name", name))
	return template, nil
}

// Get returns a template by name.
func (m *Manager) Get(name string) (*Template, bool) {
	template, ok := m.templates[name]
	return template, ok
}

// Update revises an existing template with new content, recording a
// new version. TEMPLATE_NOT_FOUND when the name is unknown.
func (m *Manager) Update(name, content, description string, variables []string) (*Template, error) {
	template, ok := m.templates[name]
	if !ok {
		return nil, types.NewErrorf(types.ErrTemplateNotFound, "template %q not found", name)
	}

	template.AddVersion(content)
	if description != "" {
		template.Description = description
	}
	if variables != nil {
		template.Variables = variables
	}
	if err := m.save(); err != nil {
		return nil, err
	}
	return template, nil
}

// Names returns all template names in lexical order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) load() error {
	path := filepath.Join(m.storagePath, templatesFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var templates []*Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return types.NewErrorf(types.ErrCorruptState,
			"template file %s is not valid JSON", path).WithCause(err)
	}
	for _, template := range templates {
		m.templates[template.Name] = template
	}
	return nil
}

func (m *Manager) save() error {
	if m.storagePath == "" {
		return nil
	}

	templates := make([]*Template, 0, len(m.templates))
	for _, name := range m.Names() {
		templates = append(templates, m.templates[name])
	}
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	path := filepath.Join(m.storagePath, templatesFile)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadLayoutFile читает раскладку из YAML файла авторинга
func ReadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение раскладки %s: %w", path, err)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("разбор раскладки %s: %w", path, err)
	}
	return &layout, nil
}

// WriteLayoutFile сохраняет раскладку в YAML
func WriteLayoutFile(path string, layout *Layout) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("сериализация раскладки %s: %w", layout.Name, err)
	}
	return os.WriteFile(path, data, 0644)
}

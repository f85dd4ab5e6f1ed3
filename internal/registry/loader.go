package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/kabutaro/internal/models"
)

// rawEntry accepts the code as a JSON string or number; spreadsheet exports
// drop the leading zeros of codes like 0001.
type rawEntry struct {
	Code codeField `json:"code" yaml:"code"`
	Name string    `json:"name" yaml:"name"`
}

type codeField string

func (c *codeField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = codeField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("code must be a string or number: %w", err)
	}
	*c = codeField(n.String())
	return nil
}

// Load reads registry entries from a .json, .yaml or .yml file.
func Load(path string) ([]models.TickerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	var raw []rawEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}

	entries := make([]models.TickerEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, models.TickerEntry{
			Code: padCode(strings.TrimSpace(string(r.Code))),
			Name: strings.TrimSpace(r.Name),
		})
	}
	return entries, nil
}

// LoadRegistry loads and indexes the registry file.
func LoadRegistry(path string) (*Registry, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// padCode left-pads purely numeric codes shorter than four digits with zeros.
func padCode(code string) string {
	if code == "" || len(code) >= 4 {
		return code
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return code
		}
	}
	return strings.Repeat("0", 4-len(code)) + code
}

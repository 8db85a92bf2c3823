package route53

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SavePlan persists a plan in the requested format.
func SavePlan(plan *ChangePlan, path, format string, pretty bool) error {
	if plan == nil {
		return fmt.Errorf("plan is nil")
	}
	if format == "" {
		format = detectFormatFromPath(path)
	}
	content, err := encode(plan, format, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

// EncodePlan serializes the plan to either JSON or YAML.
func EncodePlan(plan *ChangePlan, format string, pretty bool) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}
	return encode(plan, format, pretty)
}

// EncodeResult serializes a reconciliation result to either JSON or YAML.
func EncodeResult(result *Result, format string, pretty bool) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}
	return encode(result, format, pretty)
}

func encode(value any, format string, pretty bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(value)
	default:
		if pretty {
			return json.MarshalIndent(value, "", "  ")
		}
		return json.Marshal(value)
	}
}

func detectFormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"snic_example",
		"snic_segment",
		"snic_expression",
		"image_band_names",
		"map_preview",
		"palette_legend",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be declared
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, name := range required {
					if _, ok := props[name]; !ok {
						t.Errorf("required parameter %s not in properties", name)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string][]string{
		"snic_segment":     {"asset_id", "lon", "lat", "zoom"},
		"image_band_names": {"asset_id"},
	}

	for _, tool := range GetToolDefinitions() {
		want, ok := tests[tool.Name]
		if !ok {
			if _, has := tool.InputSchema["required"]; has {
				t.Errorf("%s: no parameters should be required", tool.Name)
			}
			continue
		}

		required, ok := tool.InputSchema["required"].([]string)
		if !ok {
			t.Errorf("%s: required should be []string", tool.Name)
			continue
		}
		if len(required) != len(want) {
			t.Errorf("%s: required got %v, want %v", tool.Name, required, want)
			continue
		}
		for i := range want {
			if required[i] != want[i] {
				t.Errorf("%s: required got %v, want %v", tool.Name, required, want)
				break
			}
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	expectedDefaults := map[string]map[string]interface{}{
		"snic_segment": {
			"size":         30,
			"compactness":  0.1,
			"connectivity": 8,
		},
		"image_band_names": {
			"segmented": false,
		},
		"map_preview": {
			"show_tile_grid": false,
		},
		"palette_legend": {
			"width":  256,
			"height": 16,
		},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for toolName, defaults := range expectedDefaults {
		tool, ok := toolMap[toolName]
		if !ok {
			t.Errorf("Tool %s not found", toolName)
			continue
		}

		props := tool.InputSchema["properties"].(map[string]interface{})
		for paramName, expected := range defaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s: parameter %s not found", toolName, paramName)
				continue
			}
			if actual := param["default"]; actual != expected {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)", toolName, paramName, actual, actual, expected, expected)
			}
		}
	}
}

func TestToolDefinitions_ExpressionLayers(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "snic_expression" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		layer := props["layer"].(map[string]interface{})
		enum, ok := layer["enum"].([]string)
		if !ok {
			t.Fatal("layer enum should be []string")
		}
		want := []string{"NAIP RGB", "Clusters", "RGB cluster means"}
		if len(enum) != len(want) {
			t.Fatalf("enum: got %v, want %v", enum, want)
		}
		for i := range want {
			if enum[i] != want[i] {
				t.Errorf("enum[%d]: got %s, want %s", i, enum[i], want[i])
			}
		}
		return
	}
	t.Fatal("snic_expression not defined")
}

func TestHandleToolsList(t *testing.T) {
	s := New(Options{})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}

package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAnalyzeResponse_MarshalJSON(t *testing.T) {
	resp := AnalyzeResponse{
		Name:    "gauge",
		NPoints: 3,
		Metrics: map[string]float64{"RMSE": 0.5, "KGE2012": math.NaN(), "NRMSEN": math.Inf(1)},
		Er:      []float64{0.5, 0, -0.5},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded["RMSE"] != 0.5 {
		t.Errorf("Expected RMSE 0.5, got %v", decoded["RMSE"])
	}
	if decoded["KGE2012"] != "NaN" {
		t.Errorf("Expected KGE2012 \"NaN\", got %v", decoded["KGE2012"])
	}
	if decoded["NRMSEN"] != "Infinity" {
		t.Errorf("Expected NRMSEN \"Infinity\", got %v", decoded["NRMSEN"])
	}
	if decoded["name"] != "gauge" {
		t.Errorf("Expected name 'gauge', got %v", decoded["name"])
	}
	if decoded["n_points"] != float64(3) {
		t.Errorf("Expected n_points 3, got %v", decoded["n_points"])
	}
	if decoded["cached"] != false {
		t.Errorf("Expected cached false, got %v", decoded["cached"])
	}
	er, ok := decoded["Er"].([]interface{})
	if !ok || len(er) != 3 {
		t.Fatalf("Expected Er with 3 values, got %v", decoded["Er"])
	}
}

func TestAnalyzeRequest_NullValues(t *testing.T) {
	var req AnalyzeRequest
	body := `{"predicted":[1,null,3],"target":[1,2,"NaN"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(req.Predicted) != 3 || !math.IsNaN(req.Predicted[1]) {
		t.Errorf("Expected null to decode as NaN, got %v", req.Predicted)
	}
	if !math.IsNaN(req.Target[2]) {
		t.Errorf("Expected \"NaN\" to decode as NaN, got %v", req.Target)
	}
}

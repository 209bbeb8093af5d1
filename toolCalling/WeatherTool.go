package toolCalling

import "encoding/json"

// WeatherTool implements get_current_weather. The forecast is canned; the
// point of the handler is exercising the function-calling round trip.
type WeatherTool struct{}

func NewWeatherTool() *WeatherTool {
	return &WeatherTool{}
}

func (h *WeatherTool) Name() string {
	return "get_current_weather"
}

func (h *WeatherTool) Description() string {
	return "Get the current weather in a given location"
}

func (h *WeatherTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"location": map[string]interface{}{
				"type":        "string",
				"description": "The city and state, e.g. San Francisco, CA",
			},
			"unit": map[string]interface{}{
				"type": "string",
				"enum": []string{"celsius", "fahrenheit"},
			},
		},
		"required": []string{"location"},
	}
}

func (h *WeatherTool) Execute(args map[string]interface{}) (string, error) {
	location, ok := args["location"].(string)
	if !ok {
		return "", &ArgumentError{Function: h.Name(), Reason: "'location' parameter should be string"}
	}
	unit := "fahrenheit"
	if u, present := args["unit"]; present {
		s, ok := u.(string)
		if !ok {
			return "", &ArgumentError{Function: h.Name(), Reason: "'unit' parameter should be string"}
		}
		unit = s
	}

	result := struct {
		Location    string   `json:"location"`
		Temperature string   `json:"temperature"`
		Unit        string   `json:"unit"`
		Forecast    []string `json:"forecast"`
	}{
		Location:    location,
		Temperature: "72",
		Unit:        unit,
		Forecast:    []string{"sunny", "windy"},
	}
	js, _ := json.Marshal(result)
	return string(js), nil
}

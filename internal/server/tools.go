package server

// Tool is a tool definition advertised through tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// detectProperties describes the pipeline tunables shared by detect_box and
// annotate_box. Every field maps onto detection.Config; omitted parameters
// fall back to the documented defaults.
func detectProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"canny_low": map[string]interface{}{
			"type":        "integer",
			"description": "Low edge-detection threshold (0-255). Default 50",
			"default":     50,
		},
		"canny_high": map[string]interface{}{
			"type":        "integer",
			"description": "High edge-detection threshold (0-255). Default 150",
			"default":     150,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius in pixels. Default 2",
			"default":     2,
		},
		"min_contour_area": map[string]interface{}{
			"type":        "number",
			"description": "Minimum contour area in square pixels. Default 1000",
			"default":     1000,
		},
		"approx_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Polygon simplification tolerance as a fraction of perimeter. Default 0.02",
			"default":     0.02,
		},
		"require_quadrilateral": map[string]interface{}{
			"type":        "boolean",
			"description": "Fail instead of falling back to the largest contour when no quadrilateral is found. Default false",
			"default":     false,
		},
		"offset_percent": map[string]interface{}{
			"type":        "number",
			"description": "Placement offset upward from center, as a fraction of box height. Default 0.1",
			"default":     0.1,
		},
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_info",
			Description: "Load an image file and return its dimensions, format, color depth, and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "detect_box",
			Description: "Run the box pose pipeline on an image: edge detection, contour selection, minimum-area rectangle fit, and sticker placement. Returns the normalized orientation angle, placement coordinate, and fitted rectangle, or a failure reason when no box is found.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "annotate_box",
			Description: "Run the box pose pipeline and return the source image with the detection overlaid (axes, rectangle outline, placement marker, labels) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProperties(),
				"required":   []string{"path"},
			},
		},
	}
}

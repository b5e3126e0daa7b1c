package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/stickerbot/boxpose/internal/annotate"
	"github.com/stickerbot/boxpose/internal/detection"
	"github.com/stickerbot/boxpose/internal/imaging"
)

// ToolCallParams are the parameters of a tools/call request.
type ToolCallParams struct {
	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the tool.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the handler functions.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_info":
		return s.handleImageInfo(args)
	case "detect_box":
		return s.handleDetectBox(args)
	case "annotate_box":
		return s.handleAnnotateBox(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// detectArgs mirrors detection.Config with pointer fields so that absent
// parameters fall back to defaults rather than zero values.
type detectArgs struct {
	Path                 string   `json:"path"`
	CannyLow             *int     `json:"canny_low"`
	CannyHigh            *int     `json:"canny_high"`
	BlurRadius           *float64 `json:"blur_radius"`
	MinContourArea       *float64 `json:"min_contour_area"`
	ApproxTolerance      *float64 `json:"approx_tolerance"`
	RequireQuadrilateral *bool    `json:"require_quadrilateral"`
	OffsetPercent        *float64 `json:"offset_percent"`
}

// config merges the supplied arguments over the pipeline defaults.
func (a *detectArgs) config() detection.Config {
	cfg := detection.DefaultConfig()
	if a.CannyLow != nil {
		cfg.CannyLow = *a.CannyLow
	}
	if a.CannyHigh != nil {
		cfg.CannyHigh = *a.CannyHigh
	}
	if a.BlurRadius != nil {
		cfg.BlurRadius = *a.BlurRadius
	}
	if a.MinContourArea != nil {
		cfg.MinContourArea = *a.MinContourArea
	}
	if a.ApproxTolerance != nil {
		cfg.ApproxTolerance = *a.ApproxTolerance
	}
	if a.RequireQuadrilateral != nil {
		cfg.RequireQuadrilateral = *a.RequireQuadrilateral
	}
	if a.OffsetPercent != nil {
		cfg.OffsetPercent = *a.OffsetPercent
	}
	return cfg
}

func (s *Server) handleDetectBox(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := detection.Detect(img, a.config())
	if err != nil {
		return nil, err
	}
	// The contour can run to thousands of points; trim it from the wire
	// format and keep the geometric summary.
	trimmed := *res
	trimmed.Contour = nil
	return &trimmed, nil
}

// annotateResult wraps the detection record with the rendered overlay.
type annotateResult struct {
	Detection   *detection.Result `json:"detection"`
	ImageBase64 string            `json:"image_base64"`
	MimeType    string            `json:"mime_type"`
}

func (s *Server) handleAnnotateBox(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := detection.Detect(img, a.config())
	if err != nil {
		return nil, err
	}

	annotated := annotate.Render(img, res, annotate.Options{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, annotated); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	trimmed := *res
	trimmed.Contour = nil
	return &annotateResult{
		Detection:   &trimmed,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

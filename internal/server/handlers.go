package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/align"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/plate"
	"github.com/ironsheep/plate-reader/internal/render"
)

// errNoDetectors is returned by plate_read when the server runs without detectors.
var errNoDetectors = errors.New("no detectors configured; start the server with plate and character model sources")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "plate_estimate_angle", "plate_read").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Geometry
	case "plate_estimate_angle":
		return s.handlePlateEstimateAngle(args)
	case "plate_align":
		return s.handlePlateAlign(args)
	case "plate_edges":
		return s.handlePlateEdges(args)
	case "plate_remap":
		return s.handlePlateRemap(args)

	// Text
	case "plate_layout":
		return s.handlePlateLayout(args)
	case "plate_read":
		return s.handlePlateRead(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadRegion loads path and crops it to region when one is given.
func (s *Server) loadRegion(path string, region *imaging.Region) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return img, nil
	}
	return imaging.Crop(img, *region)
}

// === Geometry Handlers ===

type plateImageArgs struct {
	Path   string          `json:"path"`
	Region *imaging.Region `json:"region"`
}

func (s *Server) handlePlateEstimateAngle(args json.RawMessage) (interface{}, error) {
	var a plateImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadRegion(a.Path, a.Region)
	if err != nil {
		return nil, err
	}
	return align.NewEstimator().Estimate(img), nil
}

type plateAlignResult struct {
	Angle       float64 `json:"angle"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

func (s *Server) handlePlateAlign(args json.RawMessage) (interface{}, error) {
	var a plateImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadRegion(a.Path, a.Region)
	if err != nil {
		return nil, err
	}

	aligned, angle, err := align.Align(img)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(aligned)
	if err != nil {
		return nil, err
	}
	return &plateAlignResult{
		Angle:       angle,
		Width:       aligned.Bounds().Dx(),
		Height:      aligned.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type plateEdgesArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handlePlateEdges(args json.RawMessage) (interface{}, error) {
	var a plateEdgesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = align.DefaultCannyLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = align.DefaultCannyHigh
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

type plateRemapArgs struct {
	Box         plate.Box      `json:"box"`
	Region      imaging.Region `json:"region"`
	WorkingSize int            `json:"working_size"`
}

func (s *Server) handlePlateRemap(args json.RawMessage) (interface{}, error) {
	var a plateRemapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.WorkingSize == 0 {
		a.WorkingSize = plate.WorkingSize
	}
	return plate.Remap(a.Box, a.Region, image.Pt(a.WorkingSize, a.WorkingSize))
}

// === Text Handlers ===

type plateLayoutArgs struct {
	Characters []plate.CharacterBox `json:"characters"`
	RowGap     *int                 `json:"row_gap"`
}

type plateLayoutResult struct {
	Text  string     `json:"text"`
	Rows  [][]string `json:"rows"`
	Order []string   `json:"order"`
}

func (s *Server) handlePlateLayout(args json.RawMessage) (interface{}, error) {
	var a plateLayoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	gap := plate.DefaultRowGap
	if a.RowGap != nil {
		gap = *a.RowGap
	}

	ordered, rows := plate.ResolveLayout(a.Characters, gap)
	result := &plateLayoutResult{
		Text:  plate.AssembleText(rows),
		Rows:  make([][]string, len(rows)),
		Order: make([]string, len(ordered)),
	}
	for i, row := range rows {
		result.Rows[i] = make([]string, len(row))
		for j, c := range row {
			result.Rows[i][j] = c.Label
		}
	}
	for i, c := range ordered {
		result.Order[i] = c.Label
	}
	return result, nil
}

type plateReadArgs struct {
	Path     string `json:"path"`
	Annotate bool   `json:"annotate"`
}

type plateReadResult struct {
	Plates      []plate.Reading `json:"plates"`
	Count       int             `json:"count"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	MimeType    string          `json:"mime_type,omitempty"`
}

func (s *Server) handlePlateRead(args json.RawMessage) (interface{}, error) {
	if s.reader == nil {
		return nil, errNoDetectors
	}
	var a plateReadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	readings, err := s.reader.ReadFrame(img)
	if err != nil {
		return nil, err
	}
	result := &plateReadResult{Plates: readings, Count: len(readings)}

	if a.Annotate {
		encoded, err := imaging.EncodePNGBase64(render.Annotate(img, readings, render.DefaultStyle()))
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = encoded
		result.MimeType = "image/png"
	}
	return result, nil
}

package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/striplab/assay-tools-mcp/internal/batch"
	"github.com/striplab/assay-tools-mcp/internal/colorstat"
	"github.com/striplab/assay-tools-mcp/internal/linedetect"
	"github.com/striplab/assay-tools-mcp/internal/ocr"
	"github.com/striplab/assay-tools-mcp/internal/raster"
	"github.com/striplab/assay-tools-mcp/internal/trend"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g. "strip_quantify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the
// specified tool. Tool execution errors become JSON-RPC errors with
// code -32000; the result is wrapped in MCP's content format.
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

// executeTool dispatches tool execution to the appropriate handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "strip_load":
		return s.handleStripLoad(args)
	case "strip_dimensions":
		return s.handleStripDimensions(args)
	case "strip_select_region":
		return s.handleStripSelectRegion(args)
	case "strip_crop":
		return s.handleStripCrop(args)
	case "strip_detect_line":
		return s.handleStripDetectLine(args)
	case "strip_quantify":
		return s.handleStripQuantify(args)
	case "strip_quantify_batch":
		return s.handleStripQuantifyBatch(args)
	case "strip_trend":
		return s.handleStripTrend(args)
	case "strip_overlay":
		return s.handleStripOverlay(args)
	case "strip_label_ocr":
		return s.handleStripLabelOCR(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// rasterFor loads a photo and applies the optional region crop and
// denoise, producing the raster the detection core will see.
func (s *Server) rasterFor(path string, region *raster.Rect, sigma float64) (*raster.Raster, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	var r *raster.Raster
	if region != nil {
		r, err = raster.Crop(img, *region)
		if err != nil {
			return nil, err
		}
	} else {
		r = raster.FromImage(img)
	}
	return r.Denoise(sigma), nil
}

// detectorFor returns the configured default detector, or builds one for
// an explicitly requested strategy and/or per-call parameter overrides.
// Override fields left zero keep the configured values.
func (s *Server) detectorFor(strategy string, overrides *linedetect.Params) (linedetect.Detector, error) {
	if strategy == "" && overrides == nil {
		return s.detector, nil
	}
	if strategy == "" {
		strategy = s.cfg.Strategy
	}
	params := s.cfg.Detector
	if overrides != nil {
		params = params.Merge(*overrides)
	}
	return linedetect.New(strategy, params)
}

// === Image loading handlers ===

type stripPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleStripLoad(args json.RawMessage) (interface{}, error) {
	var a stripPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadStripInfo(s.cache, a.Path)
}

func (s *Server) handleStripDimensions(args json.RawMessage) (interface{}, error) {
	var a stripPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.GetDimensions(s.cache, a.Path)
}

// === Region selection handlers ===

type selectRegionArgs struct {
	Mask          []raster.Point `json:"mask"`
	DisplayWidth  int            `json:"display_width"`
	DisplayHeight int            `json:"display_height"`
	NativeWidth   int            `json:"native_width"`
	NativeHeight  int            `json:"native_height"`
}

func (s *Server) handleStripSelectRegion(args json.RawMessage) (interface{}, error) {
	var a selectRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rect, err := raster.SelectionBounds(a.Mask, a.DisplayWidth, a.DisplayHeight, a.NativeWidth, a.NativeHeight)
	if err != nil {
		return nil, err
	}
	return rect, nil
}

type stripCropArgs struct {
	Path   string      `json:"path"`
	Region raster.Rect `json:"region"`
	Scale  float64     `json:"scale"`
}

func (s *Server) handleStripCrop(args json.RawMessage) (interface{}, error) {
	var a stripCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := raster.Crop(img, a.Region)
	if err != nil {
		return nil, err
	}
	return raster.Encode(r, a.Scale)
}

// === Detection and quantification handlers ===

type detectArgs struct {
	Path               string             `json:"path"`
	Region             *raster.Rect       `json:"region"`
	Strategy           string             `json:"strategy"`
	IncludeCoordinates bool               `json:"include_coordinates"`
	DenoiseSigma       float64            `json:"denoise_sigma"`
	Params             *linedetect.Params `json:"params"`
}

// DetectLineResult is the strip_detect_line payload.
type DetectLineResult struct {
	Strategy    string             `json:"strategy"`
	PixelCount  int                `json:"pixel_count"`
	Bounds      *linedetect.Bounds `json:"bounds,omitempty"`
	Coordinates []raster.Point     `json:"coordinates,omitempty"`
}

func (s *Server) handleStripDetectLine(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.DenoiseSigma == 0 {
		a.DenoiseSigma = s.cfg.DenoiseSigma
	}

	det, err := s.detectorFor(a.Strategy, a.Params)
	if err != nil {
		return nil, err
	}
	r, err := s.rasterFor(a.Path, a.Region, a.DenoiseSigma)
	if err != nil {
		return nil, err
	}

	sel := det.Detect(r)
	result := &DetectLineResult{
		Strategy:   det.Name(),
		PixelCount: len(sel),
	}
	if b, ok := sel.Bounds(); ok {
		result.Bounds = &b
	}
	if a.IncludeCoordinates {
		result.Coordinates = sel.Points()
	}
	return result, nil
}

// QuantifyResult is the strip_quantify payload.
type QuantifyResult struct {
	Strategy string            `json:"strategy"`
	Summary  colorstat.Summary `json:"summary"`
}

func (s *Server) handleStripQuantify(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.DenoiseSigma == 0 {
		a.DenoiseSigma = s.cfg.DenoiseSigma
	}

	det, err := s.detectorFor(a.Strategy, a.Params)
	if err != nil {
		return nil, err
	}
	r, err := s.rasterFor(a.Path, a.Region, a.DenoiseSigma)
	if err != nil {
		return nil, err
	}

	return &QuantifyResult{
		Strategy: det.Name(),
		Summary:  colorstat.Aggregate(det.Detect(r)),
	}, nil
}

type batchArgs struct {
	Items    []batch.Item `json:"items"`
	Strategy string       `json:"strategy"`
}

func (s *Server) handleStripQuantifyBatch(args json.RawMessage) (interface{}, error) {
	var a batchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Items) == 0 {
		return nil, fmt.Errorf("batch is empty")
	}

	det, err := s.detectorFor(a.Strategy, nil)
	if err != nil {
		return nil, err
	}

	q := &batch.Quantifier{
		Cache:        s.cache,
		Detector:     det,
		DenoiseSigma: s.cfg.DenoiseSigma,
		Workers:      s.cfg.Workers,
	}
	result, err := q.Run(context.Background(), a.Items)
	if err != nil {
		return nil, err
	}
	return result, nil
}

type trendArgs struct {
	Samples []trend.Sample `json:"samples"`
}

func (s *Server) handleStripTrend(args json.RawMessage) (interface{}, error) {
	var a trendArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return trend.Reduce(a.Samples), nil
}

// === Verification handlers ===

type overlayArgs struct {
	Path      string       `json:"path"`
	Region    *raster.Rect `json:"region"`
	Strategy  string       `json:"strategy"`
	Highlight string       `json:"highlight"`
}

func (s *Server) handleStripOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Highlight == "" {
		a.Highlight = "#00FF0080"
	}

	det, err := s.detectorFor(a.Strategy, nil)
	if err != nil {
		return nil, err
	}
	r, err := s.rasterFor(a.Path, a.Region, s.cfg.DenoiseSigma)
	if err != nil {
		return nil, err
	}

	sel := det.Detect(r)
	return raster.Overlay(r, sel.Points(), a.Highlight)
}

type labelOCRArgs struct {
	Path     string       `json:"path"`
	Region   *raster.Rect `json:"region"`
	Language string       `json:"language"`
}

func (s *Server) handleStripLabelOCR(args json.RawMessage) (interface{}, error) {
	var a labelOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCRLanguage
	}

	if a.Region == nil {
		return ocr.ReadLabel(a.Path, a.Language)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return ocr.ReadLabelRegion(img,
		a.Region.X, a.Region.Y,
		a.Region.X+a.Region.Width, a.Region.Y+a.Region.Height,
		a.Language)
}

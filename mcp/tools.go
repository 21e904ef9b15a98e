package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/editor"
	"github.com/lvillar/pagelayout/geometry"
	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
	"github.com/lvillar/pagelayout/render"
)

// layoutSchema describes the "layout" argument shared by most tools.
var layoutSchema = map[string]interface{}{
	"type":        "object",
	"description": "Layout document: paperWidth, paperHeight, margins and regions (free regions hold items, table regions hold cols). Omit to use the default template.",
}

// RegisterDefaultTools adds all built-in layout tools to the server.
func RegisterDefaultTools(s *Server, opts ...pagelayout.Option) {
	cfg := pagelayout.NewConfig(opts...)
	s.AddTool(paginateTool(cfg))
	s.AddTool(renderLayoutTool(cfg))
	s.AddTool(moveItemTool(cfg))
	s.AddTool(resizeItemTool(cfg))
	s.AddTool(resizeColumnTool())
	s.AddTool(moveBoundaryTool(cfg))
	s.AddTool(checkLayoutTool())
}

func paginateTool(cfg pagelayout.Config) Tool {
	return Tool{
		Name:        "paginate",
		Description: "Split the data rows of a layout's table region into pages. Returns one entry per page with its rows, placed items, column widths in percent, subtotal and, on the last page, the grand total.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout": layoutSchema,
				"data": map[string]interface{}{
					"type":        "object",
					"description": "Data context: fields (values for bound items, optional totalAmount override) and rows (table rows keyed by column name)",
				},
			},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, err := layoutArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			ds, err := dataArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(paginate.BuildPages(doc, ds, cfg))
		},
	}
}

func renderLayoutTool(cfg pagelayout.Config) Tool {
	return Tool{
		Name:        "render_layout",
		Description: "Render a layout and its data to PDF. Returns the PDF as base64, or writes it to outputPath.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout": layoutSchema,
				"data": map[string]interface{}{
					"type":        "object",
					"description": "Data context with fields and rows",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
				"watermark": map[string]interface{}{
					"type":        "string",
					"description": "Optional watermark text, e.g. DRAFT",
				},
				"pageNumbers": map[string]interface{}{
					"type":        "string",
					"description": "Optional footer format, e.g. \"Page {page} of {pages}\"",
				},
				"background": map[string]interface{}{
					"type":        "string",
					"description": "Optional path to a PDF whose first page is drawn under every page",
				},
			},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, err := layoutArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			ds, err := dataArg(args)
			if err != nil {
				return ToolResult{}, err
			}

			opts := []render.Option{render.WithConfig(cfg)}
			if wm, ok := args["watermark"].(string); ok && wm != "" {
				opts = append(opts, render.WithWatermark(wm))
			}
			if pn, ok := args["pageNumbers"].(string); ok && pn != "" {
				opts = append(opts, render.WithPageNumbers(pn))
			}
			if bg, ok := args["background"].(string); ok && bg != "" {
				opts = append(opts, render.WithBackground(bg))
			}

			var buf bytes.Buffer
			if err := render.Render(&buf, doc, ds, opts...); err != nil {
				return ToolResult{}, fmt.Errorf("rendering PDF: %w", err)
			}

			if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
				if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
					return ToolResult{}, fmt.Errorf("writing file: %w", err)
				}
				return textResult(fmt.Sprintf("PDF created successfully: %s (%d bytes)", outputPath, buf.Len())), nil
			}

			encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
			return ToolResult{
				Content: []ContentBlock{
					{Type: "text", Text: fmt.Sprintf("PDF created successfully (%d bytes). Base64 data:\n%s", buf.Len(), encoded)},
				},
			}, nil
		},
	}
}

func itemProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"layout": layoutSchema,
		"regionId": map[string]interface{}{
			"type":        "string",
			"description": "Id of the region holding the item",
		},
		"index": map[string]interface{}{
			"type":        "number",
			"description": "Index of the item within the region",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func moveItemTool(cfg pagelayout.Config) Tool {
	return Tool{
		Name:        "move_item",
		Description: "Move an item by dx, dy millimeters as a completed drag: the item snaps to nearby item edges and page center lines, stays inside the printable area and is pushed out of the table band. Returns the updated layout and the alignment guides that matched.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": itemProperties(map[string]interface{}{
				"dx":   map[string]interface{}{"type": "number", "description": "Horizontal movement in mm"},
				"dy":   map[string]interface{}{"type": "number", "description": "Vertical movement in mm"},
				"snap": map[string]interface{}{"type": "boolean", "description": "Snap to guides (default true)"},
			}),
			"required": []string{"regionId", "index"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, ref, err := itemArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			it, err := doc.Item(ref)
			if err != nil {
				return ToolResult{}, err
			}
			threshold := cfg.SnapThresholdMM()
			if snap, ok := args["snap"].(bool); ok && !snap {
				threshold = 0
			}
			origin := geometry.Point{X: it.X, Y: it.Y}
			delta := geometry.Point{X: numberArg(args, "dx"), Y: numberArg(args, "dy")}
			next, guides, err := editor.DragItem(doc, ref, origin, delta, threshold, true)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(map[string]interface{}{"layout": next, "guides": guides})
		},
	}
}

func resizeItemTool(cfg pagelayout.Config) Tool {
	return Tool{
		Name:        "resize_item",
		Description: "Resize an item by dragging one of its eight handles (n, ne, e, se, s, sw, w, nw) by dx, dy millimeters. The item keeps a minimum size and stays inside the printable area.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": itemProperties(map[string]interface{}{
				"handle": map[string]interface{}{"type": "string", "enum": geometry.Directions, "description": "Resize handle"},
				"dx":     map[string]interface{}{"type": "number", "description": "Horizontal handle movement in mm"},
				"dy":     map[string]interface{}{"type": "number", "description": "Vertical handle movement in mm"},
			}),
			"required": []string{"regionId", "index", "handle"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, ref, err := itemArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			handle, _ := args["handle"].(string)
			dir, ok := geometry.ParseDirection(handle)
			if !ok {
				return ToolResult{}, fmt.Errorf("handle %q: %w", handle, pagelayout.ErrUnknownKind)
			}
			it, err := doc.Item(ref)
			if err != nil {
				return ToolResult{}, err
			}
			delta := geometry.Point{X: numberArg(args, "dx"), Y: numberArg(args, "dy")}
			next, err := editor.ResizeItem(doc, ref, geometry.ItemRect(*it), dir, delta, cfg.MinItemSize)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(next)
		},
	}
}

func resizeColumnTool() Tool {
	return Tool{
		Name:        "resize_column",
		Description: "Move the boundary between visible table columns index and index+1 by delta width units. Width moves between the two columns only; hidden columns are skipped.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout":   layoutSchema,
				"regionId": map[string]interface{}{"type": "string", "description": "Id of the table region"},
				"index":    map[string]interface{}{"type": "number", "description": "Index of the left column among visible columns"},
				"delta":    map[string]interface{}{"type": "number", "description": "Width moved from the right column to the left one"},
				"minLeft":  map[string]interface{}{"type": "number", "description": "Narrowest width for the left column (default 5)"},
				"minRight": map[string]interface{}{"type": "number", "description": "Narrowest width for the right column (default 5)"},
			},
			"required": []string{"regionId", "index", "delta"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, err := layoutArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			regionID, _ := args["regionId"].(string)
			minLeft := pagelayout.Positive(numberArg(args, "minLeft"), pagelayout.DefaultMinItemSize)
			minRight := pagelayout.Positive(numberArg(args, "minRight"), pagelayout.DefaultMinItemSize)
			next, err := editor.ResizeColumns(doc, regionID, int(numberArg(args, "index")), numberArg(args, "delta"), minLeft, minRight)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(next)
		},
	}
}

func moveBoundaryTool(cfg pagelayout.Config) Tool {
	return Tool{
		Name:        "move_boundary",
		Description: "Move the top edge of a region (its boundary with the region above) to top millimeters. The move is clamped so no free-layout item is clipped and the region's content stays on the page; free-layout items ride along, table content does not move.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout":   layoutSchema,
				"regionId": map[string]interface{}{"type": "string", "description": "Id of the region whose top edge moves (not the first region)"},
				"top":      map[string]interface{}{"type": "number", "description": "Requested top in mm"},
			},
			"required": []string{"regionId", "top"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, err := layoutArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			regionID, _ := args["regionId"].(string)
			lower := doc.RegionIndex(regionID)
			if lower < 0 {
				return ToolResult{}, fmt.Errorf("region %q: %w", regionID, pagelayout.ErrRegionNotFound)
			}
			next, err := editor.MoveBoundary(doc, lower, numberArg(args, "top"), cfg.MinRegionHeight)
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(next)
		},
	}
}

func checkLayoutTool() Tool {
	return Tool{
		Name:        "check_layout",
		Description: "Check a layout document for violations: region order, items outside the printable area and items overlapping the table band.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layout": layoutSchema,
			},
			"required": []string{"layout"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			doc, err := layoutArg(args)
			if err != nil {
				return ToolResult{}, err
			}
			if err := doc.CheckInvariants(); err != nil {
				if errors.Is(err, pagelayout.ErrInvalidDocument) {
					return ToolResult{
						Content: []ContentBlock{{Type: "text", Text: err.Error()}},
						IsError: true,
					}, nil
				}
				return ToolResult{}, err
			}
			return textResult("Layout is consistent."), nil
		},
	}
}

// layoutArg decodes the "layout" argument, defaulting to the default template.
func layoutArg(args map[string]interface{}) (*model.Document, error) {
	raw, ok := args["layout"]
	if !ok || raw == nil {
		return model.DefaultTemplate(), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}
	return model.Parse(data)
}

func dataArg(args map[string]interface{}) (*model.Dataset, error) {
	var ds model.Dataset
	raw, ok := args["data"]
	if !ok || raw == nil {
		return &ds, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing data: %w", err)
	}
	return &ds, nil
}

func itemArgs(args map[string]interface{}) (*model.Document, model.ItemRef, error) {
	doc, err := layoutArg(args)
	if err != nil {
		return nil, model.ItemRef{}, err
	}
	regionID, ok := args["regionId"].(string)
	if !ok {
		return nil, model.ItemRef{}, fmt.Errorf("missing 'regionId' argument")
	}
	return doc, model.ItemRef{RegionID: regionID, Index: int(numberArg(args, "index"))}, nil
}

// numberArg returns a numeric argument; JSON numbers decode as float64.
func numberArg(args map[string]interface{}, name string) float64 {
	v, _ := args[name].(float64)
	return pagelayout.Finite(v, 0)
}

func jsonResult(v interface{}) (ToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return textResult(string(jsonBytes)), nil
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

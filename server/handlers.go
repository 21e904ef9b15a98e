package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
	"github.com/lvillar/pagelayout/render"
)

type handlers struct {
	layout pagelayout.Config
	images render.Option // where image items may be read from
}

// layoutRequest is the body of the POST routes. A missing layout means the
// default template.
type layoutRequest struct {
	Layout      json.RawMessage `json:"layout"`
	Data        *model.Dataset  `json:"data"`
	Watermark   string          `json:"watermark,omitempty"`
	PageNumbers string          `json:"pageNumbers,omitempty"`
}

func decodeRequest(c fiber.Ctx) (*layoutRequest, *model.Document, error) {
	var req layoutRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return nil, nil, err
		}
	}
	if len(req.Layout) == 0 || string(req.Layout) == "null" {
		return &req, model.DefaultTemplate(), nil
	}
	doc, err := model.Parse(req.Layout)
	if err != nil {
		return nil, nil, err
	}
	return &req, doc, nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (h *handlers) template(c fiber.Ctx) error {
	doc, ok := model.Template(c.Params("name"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown template",
		})
	}
	return c.JSON(doc)
}

func (h *handlers) paginate(c fiber.Ctx) error {
	req, doc, err := decodeRequest(c)
	if err != nil {
		log.Printf("[PAGINATE] Decode error: %v", err)
		return badRequest(c, err)
	}
	pages := paginate.BuildPages(doc, req.Data, h.layout)
	return c.JSON(fiber.Map{"pageCount": len(pages), "pages": pages})
}

func (h *handlers) render(c fiber.Ctx) error {
	req, doc, err := decodeRequest(c)
	if err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return badRequest(c, err)
	}

	opts := []render.Option{render.WithConfig(h.layout), h.images}
	if req.Watermark != "" {
		opts = append(opts, render.WithWatermark(req.Watermark))
	}
	if req.PageNumbers != "" {
		opts = append(opts, render.WithPageNumbers(req.PageNumbers))
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, doc, req.Data, opts...); err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		if errors.Is(err, pagelayout.ErrInvalidDocument) || errors.Is(err, pagelayout.ErrImageNotAllowed) {
			return badRequest(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="layout.pdf"`)
	return c.Send(buf.Bytes())
}

func (h *handlers) check(c fiber.Ctx) error {
	_, doc, err := decodeRequest(c)
	if err != nil {
		return badRequest(c, err)
	}
	if err := doc.CheckInvariants(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"ok":    false,
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}

package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/tbxark/stickeragent/agent"
)

type messageRequest struct {
	Text string `json:"text"`
}

type actionRequest struct {
	Action string `json:"action"`
}

type photosRequest struct {
	Count int `json:"count"`
}

type previewRequest struct {
	HasPreview *bool `json:"has_preview"`
}

type turnResponse struct {
	Handled    bool   `json:"handled"`
	Generation uint64 `json:"generation"`
}

func (s *Server) createSession(c *fiber.Ctx) error {
	ctx, _, err := s.manager.Create(c.UserContext())
	if err != nil {
		return err
	}
	id, _ := agent.SessionIDFromContext(ctx)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	return c.JSON(flow.Session().Snapshot())
}

func (s *Server) resetSession(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	flow.Session().Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) postMessage(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	handled, err := flow.Send(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(turnResponse{Handled: handled, Generation: flow.Session().Generation()})
}

func (s *Server) postAction(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	handled, err := flow.Session().HandleAction(req.Action)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyMessage) {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !handled {
		slog.Debug("Ignored action", "session", flow.Session().ID(), "action", req.Action)
	}
	return c.JSON(turnResponse{Handled: handled, Generation: flow.Session().Generation()})
}

func (s *Server) postPhotos(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	var req photosRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := flow.Session().PhotosCropped(req.Count); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(turnResponse{Handled: true, Generation: flow.Session().Generation()})
}

// postPreview marks a rendered preview as showing. An empty body means true.
func (s *Server) postPreview(c *fiber.Ctx) error {
	flow, err := s.flow(c)
	if err != nil {
		return err
	}
	var req previewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}
	hasPreview := req.HasPreview == nil || *req.HasPreview
	flow.Session().SetPreview(hasPreview)
	return c.JSON(flow.Session().Snapshot())
}

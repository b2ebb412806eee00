package controller

import (
	"askgov-sg/internal/constant"
	"askgov-sg/internal/dto"
	"askgov-sg/internal/mapper"
	"askgov-sg/internal/pkg/serverutils"
	"askgov-sg/internal/service"
	"askgov-sg/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	GetSession(ctx *fiber.Ctx) error
	UpdateContext(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type askController struct {
	service service.IAskService
	mapper  *mapper.AskMapper
}

func NewAskController(service service.IAskService) IAskController {
	return &askController{
		service: service,
		mapper:  mapper.NewAskMapper(),
	}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	// the session view stays open so clients can learn whether to prompt
	r.Get("/session", c.GetSession)
	r.Put("/session/context", serverutils.RequireGate, c.UpdateContext)
	r.Post("/ask", serverutils.RequireGate, c.Ask)
}

func (c *askController) GetSession(ctx *fiber.Ctx) error {
	session := serverutils.CurrentSession(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Session", c.mapper.SessionToDTO(session)))
}

func (c *askController) UpdateContext(ctx *fiber.Ctx) error {
	var req dto.UpdateContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	session := serverutils.CurrentSession(ctx)
	qctx := store.QueryContext{Location: store.Location(req.Location), Need: store.Need(req.Need)}
	if err := c.service.UpdateContext(ctx.UserContext(), session, qctx); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(constant.MsgContextUpdated, c.mapper.SessionToDTO(session)))
}

func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	session := serverutils.CurrentSession(ctx)
	qctx := c.mapper.ContextFromRequest(&req, session.Context())
	if err := c.service.UpdateContext(ctx.UserContext(), session, qctx); err != nil {
		return err
	}

	res := c.service.Ask(ctx.UserContext(), session, req.Query)
	code, message := askStatus(res)
	return ctx.Status(code).JSON(serverutils.ResultResponse(code, message, res))
}

func askStatus(res *dto.AskResponse) (int, string) {
	switch res.State {
	case constant.AskStateIdle:
		return fiber.StatusBadRequest, res.Warning
	case constant.AskStateError:
		return fiber.StatusBadGateway, res.Error
	case constant.AskStateNoResults:
		return fiber.StatusOK, res.Warning
	default:
		return fiber.StatusOK, constant.MsgQueryProcessed
	}
}

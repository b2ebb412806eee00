package controller

import (
	"askgov-sg/internal/constant"
	"askgov-sg/internal/dto"
	"askgov-sg/internal/mapper"
	"askgov-sg/internal/pkg/serverutils"
	"askgov-sg/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGateController interface {
	RegisterRoutes(r fiber.Router)
	Authenticate(ctx *fiber.Ctx) error
}

type gateController struct {
	service service.IGateService
	mapper  *mapper.AskMapper
}

func NewGateController(service service.IGateService) IGateController {
	return &gateController{
		service: service,
		mapper:  mapper.NewAskMapper(),
	}
}

func (c *gateController) RegisterRoutes(r fiber.Router) {
	r.Post("/gate", c.Authenticate)
}

func (c *gateController) Authenticate(ctx *fiber.Ctx) error {
	var req dto.GateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	session := serverutils.CurrentSession(ctx)
	ok, err := c.service.Authenticate(ctx.UserContext(), session, req.Password)
	if err != nil {
		return err
	}

	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ResultResponse(fiber.StatusUnauthorized, constant.MsgPasswordIncorrect, c.mapper.GateToDTO(session)))
	}
	return ctx.JSON(serverutils.SuccessResponse(constant.MsgAuthenticated, c.mapper.GateToDTO(session)))
}

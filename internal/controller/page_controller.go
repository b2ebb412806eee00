package controller

import (
	"bytes"
	"html/template"

	"askgov-sg/internal/constant"
	"askgov-sg/internal/dto"
	"askgov-sg/internal/mapper"
	"askgov-sg/internal/pkg/serverutils"
	"askgov-sg/internal/service"
	"askgov-sg/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type quickLink struct {
	Label string
	URL   string
}

var quickLinks = []quickLink{
	{Label: "ICA", URL: "https://www.ica.gov.sg"},
	{Label: "CPF Board", URL: "https://www.cpf.gov.sg"},
	{Label: "HDB", URL: "https://www.hdb.gov.sg"},
}

type pageView struct {
	Title             string
	Authenticated     bool
	GateDenied        bool
	PasswordIncorrect string
	Searching         string
	Locations         []store.Location
	Needs             []store.Need
	Location          store.Location
	Need              store.Need
	Query             string
	Result            *dto.AskResponse
	AnswerHTML        template.HTML
	QuickLinks        []quickLink
}

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	SubmitGate(ctx *fiber.Ctx) error
	SubmitAsk(ctx *fiber.Ctx) error
}

type pageController struct {
	tmpl   *template.Template
	gate   service.IGateService
	ask    service.IAskService
	mapper *mapper.AskMapper
}

func NewPageController(tmpl *template.Template, gate service.IGateService, ask service.IAskService) IPageController {
	return &pageController{
		tmpl:   tmpl,
		gate:   gate,
		ask:    ask,
		mapper: mapper.NewAskMapper(),
	}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Index)
	r.Post("/gate", c.SubmitGate)
	r.Post("/ask", c.SubmitAsk)
}

func (c *pageController) Index(ctx *fiber.Ctx) error {
	return c.render(ctx, serverutils.CurrentSession(ctx), "", nil)
}

// SubmitGate follows post/redirect/get so a refresh never resubmits the password.
func (c *pageController) SubmitGate(ctx *fiber.Ctx) error {
	var req dto.GateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}
	if _, err := c.gate.Authenticate(ctx.UserContext(), serverutils.CurrentSession(ctx), req.Password); err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (c *pageController) SubmitAsk(ctx *fiber.Ctx) error {
	session := serverutils.CurrentSession(ctx)
	if !session.Authenticated() {
		return ctx.Redirect("/", fiber.StatusSeeOther)
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		qctx := session.Context()
		res := &dto.AskResponse{
			State:    constant.AskStateIdle,
			Query:    req.Query,
			Location: string(qctx.Location),
			Need:     string(qctx.Need),
			Sources:  []dto.SourceDTO{},
			Warning:  err.Error(),
		}
		ctx.Status(fiber.StatusBadRequest)
		return c.render(ctx, session, req.Query, res)
	}

	qctx := c.mapper.ContextFromRequest(&req, session.Context())
	if err := c.ask.UpdateContext(ctx.UserContext(), session, qctx); err != nil {
		return err
	}

	res := c.ask.Ask(ctx.UserContext(), session, req.Query)
	return c.render(ctx, session, req.Query, res)
}

func (c *pageController) render(ctx *fiber.Ctx, session *store.Session, query string, res *dto.AskResponse) error {
	view := pageView{
		Title:             constant.AppTitle,
		Authenticated:     session.Authenticated(),
		GateDenied:        session.Gate == store.GateDenied,
		PasswordIncorrect: constant.MsgPasswordIncorrect,
		Searching:         constant.MsgSearching,
		Locations:         store.Locations,
		Needs:             store.Needs,
		Location:          session.Location,
		Need:              session.Need,
		Query:             query,
		Result:            res,
		QuickLinks:        quickLinks,
	}
	if res != nil {
		if res.AnswerHTML != "" {
			// already sanitized by the markdown renderer
			view.AnswerHTML = template.HTML(res.AnswerHTML)
		} else if res.Answer != "" {
			view.AnswerHTML = template.HTML("<pre>" + template.HTMLEscapeString(res.Answer) + "</pre>")
		}
	}

	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, "index", view); err != nil {
		return err
	}
	ctx.Type("html", "utf-8")
	return ctx.Send(buf.Bytes())
}

package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	crawlapp "estatedash/internal/app/handlers/crawl"
)

// CrawlHandler forwards crawler control requests from the settings page.
type CrawlHandler struct {
	Commands commands.Bus
}

type websitesRequest struct {
	Names []string `json:"names"`
}

type runRequest struct {
	Websites []string `json:"websites"`
}

type scheduleRequest struct {
	Hours int `json:"hours"`
}

func (h CrawlHandler) EnableWebsites(c *gin.Context)  { h.toggle(c, true) }
func (h CrawlHandler) DisableWebsites(c *gin.Context) { h.toggle(c, false) }

func (h CrawlHandler) toggle(c *gin.Context, enable bool) {
	var req websitesRequest
	if !h.bind(c, &req) {
		return
	}
	cmd := crawlapp.ToggleWebsitesCommand{Names: req.Names, Enable: enable}
	dispatchAck(c, h.Commands, cmd)
}

// Run starts a crawl. An empty body crawls every enabled website.
func (h CrawlHandler) Run(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req runRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	cmd := crawlapp.RunCommand{
		Websites:        req.Websites,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	dispatchAck(c, h.Commands, cmd)
}

func (h CrawlHandler) Stop(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	dispatchAck(c, h.Commands, crawlapp.StopCommand{})
}

func (h CrawlHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if !h.bind(c, &req) {
		return
	}
	dispatchAck(c, h.Commands, crawlapp.ScheduleCommand{Hours: req.Hours})
}

func (h CrawlHandler) bind(c *gin.Context, req any) bool {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return false
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func dispatchAck[C commands.Command](c *gin.Context, bus commands.Bus, cmd C) {
	ack, err := commands.Dispatch[C, dto.CrawlAck](c.Request.Context(), bus, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ack)
}

var _ CrawlHTTP = CrawlHandler{}

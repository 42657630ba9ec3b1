// Package server exposes the loaded catalog over a read-only HTTP API.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
	"github.com/JustBryant/YGOMod-Card-Database/internal/metrics"
	"github.com/JustBryant/YGOMod-Card-Database/internal/model"
	"github.com/JustBryant/YGOMod-Card-Database/internal/refresh"
)

// Router builds the API router over the refresh service's snapshots.
func Router(svc *refresh.Service, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.HTTPMetrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	h := &handlers{svc: svc}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/repository", h.repository)
		api.GET("/sets", h.listSets)
		api.GET("/sets/:id", h.getSet)
		api.GET("/cards/:id", h.getCard)
		api.GET("/search", h.search)
		api.GET("/issues", h.issues)
	}

	return r
}

type handlers struct {
	svc *refresh.Service
}

// snapshot returns the live catalog or replies 503 while no load has
// succeeded yet.
func (h *handlers) snapshot(c *gin.Context) (*catalog.Catalog, bool) {
	cat := h.svc.Snapshot()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded yet"})
		return nil, false
	}
	return cat, true
}

func (h *handlers) health(c *gin.Context) {
	if h.svc.Snapshot() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "refresh": h.svc.Metadata()})
}

func (h *handlers) repository(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"repository_info": cat.Info(),
		"sets":            cat.NumSets(),
		"cards":           cat.NumCards(),
		"consistent":      cat.Consistent(),
		"refresh":         h.svc.Metadata(),
	})
}

func (h *handlers) listSets(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}
	infos := make([]model.SetInfo, 0, cat.NumSets())
	for _, id := range cat.SetIDs() {
		if set, ok := cat.Set(id); ok {
			infos = append(infos, set.SetInfo)
		}
	}
	c.JSON(http.StatusOK, gin.H{"sets": infos})
}

func (h *handlers) getSet(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}
	set, found := cat.Set(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "set not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"set_info": set.SetInfo,
		"cards":    rawCards(set.Cards),
	})
}

func (h *handlers) getCard(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id must be an integer"})
		return
	}
	card, found := cat.Card(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, card.Raw())
}

func (h *handlers) search(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}

	rarity := model.RarityTier(c.Query("rarity"))
	if rarity != "" && !rarity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown rarity tier"})
		return
	}

	cards := cat.Search(c.Query("archetype"), rarity)
	c.JSON(http.StatusOK, gin.H{
		"count": len(cards),
		"cards": rawCards(cards),
	})
}

func (h *handlers) issues(c *gin.Context) {
	cat, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consistent": cat.Consistent(),
		"issues":     cat.Issues(),
	})
}

// rawCards converts validated cards back to the document shape so API
// responses use the repository's field names.
func rawCards(cards []model.Card) []model.RawCard {
	out := make([]model.RawCard, len(cards))
	for i, card := range cards {
		out[i] = card.Raw()
	}
	return out
}

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kestrelgames/summoner/internal/config"
	"github.com/kestrelgames/summoner/internal/game/breeding"
	"github.com/kestrelgames/summoner/internal/game/engine"
	"github.com/kestrelgames/summoner/internal/game/hero"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/prison"
	"github.com/kestrelgames/summoner/internal/game/progression"
	"github.com/kestrelgames/summoner/internal/game/rarity"
	"github.com/kestrelgames/summoner/internal/storage/savefile"
)

// HTTPServer exposes the engine's action surface over JSON/HTTP.
type HTTPServer struct {
	engine *engine.Engine
	logger *zap.Logger
	cfg    config.HTTPConfig
	srv    *http.Server
}

// NewHTTPServer builds the server and its routes.
//
// Precondition: eng and logger must be non-nil.
func NewHTTPServer(eng *engine.Engine, logger *zap.Logger, cfg config.HTTPConfig) *HTTPServer {
	s := &HTTPServer{engine: eng, logger: logger, cfg: cfg}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start runs the HTTP listener. Blocks until Stop or a listener error.
func (s *HTTPServer) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr()))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully within the configured grace
// period.
func (s *HTTPServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
}

// Handler exposes the router for tests.
func (s *HTTPServer) Handler() http.Handler { return s.srv.Handler }

func (s *HTTPServer) registerRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")

	v1.GET("/player", s.getPlayer)
	v1.POST("/player/gender", s.setGender)
	v1.POST("/player/reset", s.reset)
	v1.GET("/player/export", s.exportSave)
	v1.POST("/player/import", s.importSave)

	v1.POST("/summons/heroes", s.summonHeroes)
	v1.POST("/summons/pets", s.summonPets)

	v1.POST("/characters/:id/levelup", s.levelUp)
	v1.POST("/characters/:id/breakthrough", s.breakthrough)
	v1.POST("/characters/:id/rename", s.rename)
	v1.POST("/characters/:id/chat", s.chat)
	v1.POST("/characters/:id/lock", s.toggleLock)
	v1.POST("/characters/:id/pin", s.togglePin)
	v1.POST("/characters/:id/imprison", s.imprison)

	v1.POST("/party/hero", s.selectHero)
	v1.POST("/party/pet", s.selectPet)
	v1.POST("/characters/:id/pet", s.equipPet)

	v1.POST("/breeding/:id/attempts", s.startBreeding)
	v1.POST("/breeding/:id/claim", s.claimOffspring)
	v1.POST("/breeding/:id/speedup", s.speedUp)

	v1.POST("/offspring/:id/training", s.train)
	v1.POST("/offspring/:id/graduation", s.finishTraining)
	v1.POST("/offspring/:id/bloodline-adoption", s.adoptBloodline)

	v1.POST("/battles/end", s.battleEnd)
	v1.POST("/battles/sweep", s.sweep)

	v1.POST("/prisoners/:id/pregnancy-attempts", s.attemptPregnancy)
	v1.POST("/prisoners/:id/interrogations", s.interrogate)
	v1.POST("/prisoners/:id/instant-resolve", s.instantResolve)
	v1.POST("/prisoners/:id/persuasion", s.persuade)
	v1.POST("/prisoners/:id/execution", s.execute)
	v1.POST("/prisoners/executions", s.bulkExecute)

	v1.POST("/shop/items", s.buyItem)
	v1.POST("/shop/exchanges", s.exchange)
}

// respondErr maps domain sentinel errors onto HTTP statuses: unknown IDs
// are 404, precondition conflicts are 409, everything else is a 400.
func (s *HTTPServer) respondErr(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, player.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, player.ErrInsufficientGold),
		errors.Is(err, player.ErrInsufficientGems),
		errors.Is(err, player.ErrMissingItem),
		errors.Is(err, progression.ErrInsufficientExpPool),
		errors.Is(err, progression.ErrBreakthroughRequired),
		errors.Is(err, progression.ErrLevelCapped),
		errors.Is(err, progression.ErrNoBreakthroughDue),
		errors.Is(err, breeding.ErrAlreadyBreeding),
		errors.Is(err, breeding.ErrOnCooldown),
		errors.Is(err, breeding.ErrNoCooldown),
		errors.Is(err, breeding.ErrNotBreeding),
		errors.Is(err, breeding.ErrTimerRunning),
		errors.Is(err, breeding.ErrNotTrainable),
		errors.Is(err, breeding.ErrNotAdult),
		errors.Is(err, breeding.ErrAlreadyAdult),
		errors.Is(err, prison.ErrWillRemaining),
		errors.Is(err, prison.ErrAlreadyPregnant),
		errors.Is(err, prison.ErrNotPregnant),
		errors.Is(err, prison.ErrLocked),
		errors.Is(err, prison.ErrAlreadyCaptive),
		errors.Is(err, engine.ErrChapterNotCleared):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *HTTPServer) getPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Snapshot())
}

func (s *HTTPServer) setGender(c *gin.Context) {
	var req struct {
		Gender hero.Gender `json:"gender" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.SetGender(req.Gender); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) reset(c *gin.Context) {
	s.engine.Reset()
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) exportSave(c *gin.Context) {
	data, err := savefile.Export(s.engine.Snapshot())
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *HTTPServer) importSave(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		s.respondErr(c, err)
		return
	}
	imported, err := savefile.Import(data)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	s.engine.Replace(imported)
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) summonHeroes(c *gin.Context) {
	var req struct {
		Count      int       `json:"count" binding:"required"`
		TargetRace hero.Race `json:"target_race" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	batch, err := s.engine.Summon(req.Count, req.TargetRace)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"heroes": batch})
}

func (s *HTTPServer) summonPets(c *gin.Context) {
	var req struct {
		Count int `json:"count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	batch, err := s.engine.SummonPets(req.Count)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": batch})
}

func (s *HTTPServer) levelUp(c *gin.Context) {
	var req struct {
		Levels int `json:"levels" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.RequestLevelUp(c.Param("id"), req.Levels); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) breakthrough(c *gin.Context) {
	if err := s.engine.Breakthrough(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.Rename(c.Param("id"), req.Name); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) chat(c *gin.Context) {
	if err := s.engine.Chat(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) toggleLock(c *gin.Context) {
	if err := s.engine.ToggleLock(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) togglePin(c *gin.Context) {
	if err := s.engine.TogglePin(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) imprison(c *gin.Context) {
	if err := s.engine.Imprison(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) selectHero(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.SelectHero(req.ID); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) selectPet(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.SelectPet(req.ID); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) equipPet(c *gin.Context) {
	var req struct {
		PetID string `json:"pet_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.EquipPet(c.Param("id"), req.PetID); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) startBreeding(c *gin.Context) {
	var req struct {
		PartnerID string `json:"partner_id"`
	}
	// An empty body means no partner.
	_ = c.ShouldBindJSON(&req)
	started, err := s.engine.StartBreeding(c.Param("id"), req.PartnerID)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"started": started})
}

func (s *HTTPServer) claimOffspring(c *gin.Context) {
	child, err := s.engine.ClaimOffspring(c.Param("id"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offspring": child})
}

func (s *HTTPServer) speedUp(c *gin.Context) {
	var req struct {
		Item player.ItemType `json:"item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.SpeedUp(c.Param("id"), req.Item); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) train(c *gin.Context) {
	var req struct {
		Stat string `json:"stat" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.Train(c.Param("id"), req.Stat); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) finishTraining(c *gin.Context) {
	if err := s.engine.FinishTraining(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) adoptBloodline(c *gin.Context) {
	if err := s.engine.AdoptBloodline(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) battleEnd(c *gin.Context) {
	var req struct {
		Won     *bool `json:"won" binding:"required"`
		Chapter int   `json:"chapter" binding:"required"`
		Level   int   `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	captured, err := s.engine.BattleEnd(*req.Won, req.Chapter, req.Level)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captured": captured})
}

func (s *HTTPServer) sweep(c *gin.Context) {
	var req struct {
		Chapter int `json:"chapter" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.Sweep(req.Chapter); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) attemptPregnancy(c *gin.Context) {
	conceived, err := s.engine.AttemptPregnancy(c.Param("id"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conceived": conceived})
}

func (s *HTTPServer) interrogate(c *gin.Context) {
	var req struct {
		Method prison.InterrogationMethod `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.Interrogate(c.Param("id"), req.Method); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) instantResolve(c *gin.Context) {
	if err := s.engine.InstantResolve(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) persuade(c *gin.Context) {
	if err := s.engine.Persuade(c.Param("id")); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) execute(c *gin.Context) {
	gems, err := s.engine.Execute(c.Param("id"))
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gems": gems})
}

func (s *HTTPServer) bulkExecute(c *gin.Context) {
	var req struct {
		Rarities []rarity.Rarity `json:"rarities" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	gems, err := s.engine.BulkExecute(req.Rarities)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gems": gems})
}

func (s *HTTPServer) buyItem(c *gin.Context) {
	var req struct {
		Type player.ItemType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	if err := s.engine.BuyItem(req.Type); err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) exchange(c *gin.Context) {
	var req struct {
		// Direction is "gem_to_gold" or "gold_to_gem".
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondErr(c, err)
		return
	}
	var err error
	switch req.Direction {
	case "gem_to_gold":
		err = s.engine.ExchangeGemToGold()
	case "gold_to_gem":
		err = s.engine.ExchangeGoldToGem()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be gem_to_gold or gold_to_gem"})
		return
	}
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
